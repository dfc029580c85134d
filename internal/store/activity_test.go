package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWarnIncrements(t *testing.T) {
	s, _ := testStore(t)

	assert.Equal(t, 1, s.AddWarn(-100, 42, 7, "flood"))
	assert.Equal(t, 2, s.AddWarn(-100, 42, 7, "link"))
	assert.Equal(t, 3, s.AddWarn(-100, 42, 8, "manual"))
	assert.Equal(t, 3, s.GetWarns(-100, 42))
	assert.Equal(t, 0, s.GetWarns(-100, 99))
}

func TestWhitelistAddRemove(t *testing.T) {
	s, _ := testStore(t)

	assert.False(t, s.IsWhitelisted(-100, 1))
	s.WhitelistAdd(-100, 2)
	s.WhitelistAdd(-100, 1)
	s.WhitelistAdd(-100, 1)
	assert.True(t, s.IsWhitelisted(-100, 1))
	assert.Equal(t, []int64{1, 2}, s.WhitelistList(-100))

	s.WhitelistRemove(-100, 1)
	assert.False(t, s.IsWhitelisted(-100, 1))
	assert.Equal(t, []int64{2}, s.WhitelistList(-100))
}

func TestResolveUsernameMostRecentWins(t *testing.T) {
	s, _ := testStore(t)

	s.UpsertActivity(-100, 10, 1000, "alice")
	s.UpsertActivity(-100, 11, 2000, "Alice")

	id, ok := s.ResolveUsername(-100, "@alice")
	require.True(t, ok)
	assert.Equal(t, int64(11), id)

	_, ok = s.ResolveUsername(-100, "nobody")
	assert.False(t, ok)
}

func TestFetchInactiveOrderAndPaging(t *testing.T) {
	s, _ := testStore(t)

	s.UpsertActivity(-100, 1, 300, "c")
	s.UpsertActivity(-100, 2, 100, "a")
	s.UpsertActivity(-100, 3, 200, "b")
	s.UpsertActivity(-100, 4, 900, "fresh")

	assert.Equal(t, 3, s.CountInactive(-100, 500))

	users := s.FetchInactive(-100, 500, 2, 0)
	require.Len(t, users, 2)
	assert.Equal(t, int64(2), users[0].UserID)
	assert.Equal(t, int64(3), users[1].UserID)

	users = s.FetchInactive(-100, 500, 2, 2)
	require.Len(t, users, 1)
	assert.Equal(t, int64(1), users[0].UserID)
}

func TestPruneActivityKeepsMore(t *testing.T) {
	s, _ := testStore(t)

	for i := 0; i < 10; i++ {
		s.UpsertActivity(-100, int64(i+1), int64(100+i), fmt.Sprintf("u%d", i))
	}

	// Cutoff would drop 5 records, the cap would drop 2; the cap wins
	// because it keeps more.
	removed := s.PruneActivity(105, 8)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 8, s.CountInactive(-100, 1000))
}

func TestRolesListOrdering(t *testing.T) {
	s, _ := testStore(t)

	s.SetRole(-100, 1, "moderator")
	s.SetRole(-100, 2, "creator")
	s.SetRole(-100, 3, "admin")

	list := s.ListRoles(-100)
	require.Len(t, list, 3)
	assert.Equal(t, int64(2), list[0].UserID)
	assert.Equal(t, int64(3), list[1].UserID)
	assert.Equal(t, int64(1), list[2].UserID)

	s.DelRole(-100, 2)
	_, ok := s.GetRole(-100, 2)
	assert.False(t, ok)
}
