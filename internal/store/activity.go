package store

import (
	"sort"

	"telegram-guard-bot/internal/utils"
)

// InactiveUser is one row of an inactivity query, oldest first.
type InactiveUser struct {
	UserID int64
	LastTS int64
}

// UpsertActivity overwrites the user's last-seen record. Activity updates are
// high frequency, so the resulting save is debounced rather than immediate.
func (s *Store) UpsertActivity(chatID, userID, ts int64, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ck := chatKey(chatID)
	if s.data.Activity[ck] == nil {
		s.data.Activity[ck] = make(map[string]*ActivityRecord)
	}
	s.data.Activity[ck][userKey(userID)] = &ActivityRecord{
		LastTS:   ts,
		Username: utils.NormalizeUsername(username),
	}
	s.schedulePersistLocked()
}

// ResolveUsername maps a handle to the user id most recently seen using it.
func (s *Store) ResolveUsername(chatID int64, username string) (int64, bool) {
	uname := utils.NormalizeUsername(username)
	if uname == "" {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		bestID int64
		bestTS int64 = -1
	)
	for uk, rec := range s.data.Activity[chatKey(chatID)] {
		uid, ok := parseKey(uk)
		if !ok || rec.Username != uname {
			continue
		}
		if rec.LastTS > bestTS {
			bestTS = rec.LastTS
			bestID = uid
		}
	}
	return bestID, bestTS >= 0
}

func (s *Store) CountInactive(chatID, cutoffTS int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, rec := range s.data.Activity[chatKey(chatID)] {
		if rec.LastTS < cutoffTS {
			n++
		}
	}
	return n
}

// FetchInactive returns users last seen before cutoffTS, oldest first.
func (s *Store) FetchInactive(chatID, cutoffTS int64, limit, offset int) []InactiveUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []InactiveUser
	for uk, rec := range s.data.Activity[chatKey(chatID)] {
		uid, ok := parseKey(uk)
		if !ok || rec.LastTS >= cutoffTS {
			continue
		}
		rows = append(rows, InactiveUser{UserID: uid, LastTS: rec.LastTS})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].LastTS < rows[j].LastTS })

	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// PruneActivity removes stale activity records. A record survives if it is
// newer than cutoffTS or within the maxPerChat most recent for its chat,
// whichever rule keeps more. Returns the number of records removed.
func (s *Store) PruneActivity(cutoffTS int64, maxPerChat int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, users := range s.data.Activity {
		type entry struct {
			key string
			ts  int64
		}
		items := make([]entry, 0, len(users))
		for uk, rec := range users {
			items = append(items, entry{key: uk, ts: rec.LastTS})
		}
		sort.Slice(items, func(i, j int) bool { return items[i].ts > items[j].ts })

		keep := make(map[string]struct{}, len(items))
		for _, it := range items {
			if it.ts >= cutoffTS {
				keep[it.key] = struct{}{}
			}
		}
		for i, it := range items {
			if i >= maxPerChat {
				break
			}
			keep[it.key] = struct{}{}
		}

		for uk := range users {
			if _, ok := keep[uk]; !ok {
				delete(users, uk)
				removed++
			}
		}
	}

	if removed > 0 {
		s.persistLocked()
	}
	return removed
}
