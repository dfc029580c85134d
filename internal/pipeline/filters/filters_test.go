package filters

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-guard-bot/internal/antispam"
	"telegram-guard-bot/internal/messages"
	"telegram-guard-bot/internal/pipeline"
	"telegram-guard-bot/internal/roles"
	"telegram-guard-bot/internal/store"
	"telegram-guard-bot/internal/transport"
)

const chatID = int64(-100500)

func payloadFor(userID int64, text string) pipeline.Payload {
	return pipeline.Payload{ChatID: chatID, SenderID: userID, MessageID: 1, Text: text}
}

func TestWhitelistFilter(t *testing.T) {
	st := testStore(t)
	st.WhitelistAdd(chatID, 42)
	f := NewWhitelistFilter(st)

	res, err := f.Process(context.Background(), payloadFor(42, "anything"))
	require.NoError(t, err)
	assert.True(t, res.IsAllowed)
	assert.True(t, res.Halt)

	res, err = f.Process(context.Background(), payloadFor(43, "anything"))
	require.NoError(t, err)
	assert.True(t, res.IsAllowed)
	assert.False(t, res.Halt)
}

func TestStaffFilterPlatformAdmin(t *testing.T) {
	st := testStore(t)
	client := &mockClient{memberships: map[int64]*transport.Membership{
		7: {Status: transport.StatusAdministrator},
	}}
	f := NewStaffFilter(discardLogger(), client, st)

	res, err := f.Process(context.Background(), payloadFor(7, "spam"))
	require.NoError(t, err)
	assert.True(t, res.Halt)
}

func TestStaffFilterStoredRole(t *testing.T) {
	st := testStore(t)
	st.SetRole(chatID, 8, roles.Mod)
	st.SetRole(chatID, 9, roles.Seeker)
	f := NewStaffFilter(discardLogger(), &mockClient{}, st)

	res, err := f.Process(context.Background(), payloadFor(8, "spam"))
	require.NoError(t, err)
	assert.True(t, res.Halt)

	// Seeker is below moderator and gets no bypass.
	res, err = f.Process(context.Background(), payloadFor(9, "spam"))
	require.NoError(t, err)
	assert.False(t, res.Halt)
}

func TestFloodFilterBoundary(t *testing.T) {
	st := testStore(t)
	st.UpdateSettings(chatID, func(cs *store.ChatSettings) {
		cs.FloodLimit = 3
		cs.FloodWindow = 60
	})
	f := NewFloodFilter(antispam.NewWindows(), st)

	for i := 1; i <= 3; i++ {
		res, err := f.Process(context.Background(), payloadFor(42, fmt.Sprintf("msg %d", i)))
		require.NoError(t, err)
		assert.True(t, res.IsAllowed, "message %d must still pass", i)
	}
	res, err := f.Process(context.Background(), payloadFor(42, "msg 4"))
	require.NoError(t, err)
	assert.False(t, res.IsAllowed)
	assert.Equal(t, messages.ReasonFlood, res.Reason)
}

func TestLinkFilter(t *testing.T) {
	st := testStore(t)
	f := NewLinkFilter(st)

	res, err := f.Process(context.Background(), payloadFor(42, "go to https://evil.example"))
	require.NoError(t, err)
	assert.False(t, res.IsAllowed)
	assert.Equal(t, messages.ReasonLink, res.Reason)

	res, err = f.Process(context.Background(), payloadFor(42, "no links here"))
	require.NoError(t, err)
	assert.True(t, res.IsAllowed)

	res, err = f.Process(context.Background(), pipeline.Payload{
		ChatID: chatID, SenderID: 42, Caption: "photo: www.spam.example",
	})
	require.NoError(t, err)
	assert.False(t, res.IsAllowed)

	st.UpdateSettings(chatID, func(cs *store.ChatSettings) { cs.BlockLinks = false })
	res, err = f.Process(context.Background(), payloadFor(42, "go to https://evil.example"))
	require.NoError(t, err)
	assert.True(t, res.IsAllowed)
}

func TestRepeatFilterFiresAtLimit(t *testing.T) {
	st := testStore(t)
	st.UpdateSettings(chatID, func(cs *store.ChatSettings) { cs.RepeatLimit = 3 })
	f := NewRepeatFilter(antispam.NewRepeats(), st)

	for i := 1; i <= 2; i++ {
		res, err := f.Process(context.Background(), payloadFor(42, "same text"))
		require.NoError(t, err)
		assert.True(t, res.IsAllowed, "repeat %d must still pass", i)
	}
	res, err := f.Process(context.Background(), payloadFor(42, "SAME  text"))
	require.NoError(t, err)
	assert.False(t, res.IsAllowed)
	assert.Equal(t, messages.ReasonRepeat, res.Reason)
}

func TestRepeatFilterResetsOnNewText(t *testing.T) {
	st := testStore(t)
	st.UpdateSettings(chatID, func(cs *store.ChatSettings) { cs.RepeatLimit = 2 })
	f := NewRepeatFilter(antispam.NewRepeats(), st)

	f.Process(context.Background(), payloadFor(42, "one"))
	res, err := f.Process(context.Background(), payloadFor(42, "two"))
	require.NoError(t, err)
	assert.True(t, res.IsAllowed)

	res, err = f.Process(context.Background(), payloadFor(42, "two"))
	require.NoError(t, err)
	assert.False(t, res.IsAllowed)
}

func TestRepeatFilterCountsCaptions(t *testing.T) {
	st := testStore(t)
	st.UpdateSettings(chatID, func(cs *store.ChatSettings) { cs.RepeatLimit = 3 })
	f := NewRepeatFilter(antispam.NewRepeats(), st)

	captioned := pipeline.Payload{ChatID: chatID, SenderID: 42, Caption: "buy my course"}
	for i := 1; i <= 2; i++ {
		res, err := f.Process(context.Background(), captioned)
		require.NoError(t, err)
		assert.True(t, res.IsAllowed, "caption %d must still pass", i)
	}
	res, err := f.Process(context.Background(), captioned)
	require.NoError(t, err)
	assert.False(t, res.IsAllowed)
	assert.Equal(t, messages.ReasonRepeat, res.Reason)

	// Text and caption feed the same run: the same phrase as plain text
	// continues it rather than starting over.
	res, err = f.Process(context.Background(), payloadFor(42, "buy my course"))
	require.NoError(t, err)
	assert.False(t, res.IsAllowed)
}

func TestRepeatFilterIgnoresEmptyText(t *testing.T) {
	st := testStore(t)
	st.UpdateSettings(chatID, func(cs *store.ChatSettings) { cs.RepeatLimit = 2 })
	f := NewRepeatFilter(antispam.NewRepeats(), st)

	for i := 0; i < 5; i++ {
		res, err := f.Process(context.Background(), payloadFor(42, "   "))
		require.NoError(t, err)
		assert.True(t, res.IsAllowed)
	}
}

func TestStickerFilterModes(t *testing.T) {
	ctx := context.Background()
	stickerPayload := pipeline.Payload{ChatID: chatID, SenderID: 42, IsSticker: true}

	t.Run("ban mode", func(t *testing.T) {
		st := testStore(t)
		st.UpdateSettings(chatID, func(cs *store.ChatSettings) { cs.StickerMode = store.ModeBan })
		f := NewStickerFilter(antispam.NewWindows(), st)

		res, err := f.Process(ctx, stickerPayload)
		require.NoError(t, err)
		assert.False(t, res.IsAllowed)
		assert.Equal(t, messages.ReasonStickerBan, res.Reason)
	})

	t.Run("allow mode", func(t *testing.T) {
		st := testStore(t)
		st.UpdateSettings(chatID, func(cs *store.ChatSettings) { cs.StickerMode = store.ModeAllow })
		f := NewStickerFilter(antispam.NewWindows(), st)

		res, err := f.Process(ctx, stickerPayload)
		require.NoError(t, err)
		assert.True(t, res.IsAllowed)
		assert.True(t, res.Halt)
	})

	t.Run("limit mode boundary", func(t *testing.T) {
		st := testStore(t)
		st.UpdateSettings(chatID, func(cs *store.ChatSettings) {
			cs.StickerMode = store.ModeLimit
			cs.StickerLimit = 2
			cs.MediaWindow = 60
		})
		f := NewStickerFilter(antispam.NewWindows(), st)

		for i := 1; i <= 2; i++ {
			res, err := f.Process(ctx, stickerPayload)
			require.NoError(t, err)
			assert.True(t, res.IsAllowed, "sticker %d must still pass", i)
			assert.True(t, res.Halt)
		}
		res, err := f.Process(ctx, stickerPayload)
		require.NoError(t, err)
		assert.False(t, res.IsAllowed)
		assert.Equal(t, messages.ReasonStickerLimit, res.Reason)
	})

	t.Run("non-sticker passes through", func(t *testing.T) {
		st := testStore(t)
		st.UpdateSettings(chatID, func(cs *store.ChatSettings) { cs.StickerMode = store.ModeBan })
		f := NewStickerFilter(antispam.NewWindows(), st)

		res, err := f.Process(ctx, payloadFor(42, "text"))
		require.NoError(t, err)
		assert.True(t, res.IsAllowed)
		assert.False(t, res.Halt)
	})
}

func TestAnimationFilterUsesOwnCounter(t *testing.T) {
	st := testStore(t)
	st.UpdateSettings(chatID, func(cs *store.ChatSettings) {
		cs.StickerMode = store.ModeLimit
		cs.GifMode = store.ModeLimit
		cs.StickerLimit = 1
		cs.GifLimit = 1
		cs.MediaWindow = 60
	})
	windows := antispam.NewWindows()
	stickers := NewStickerFilter(windows, st)
	gifs := NewAnimationFilter(windows, st)
	ctx := context.Background()

	res, _ := stickers.Process(ctx, pipeline.Payload{ChatID: chatID, SenderID: 42, IsSticker: true})
	assert.True(t, res.IsAllowed)

	// The sticker above must not consume the GIF budget.
	res, _ = gifs.Process(ctx, pipeline.Payload{ChatID: chatID, SenderID: 42, IsAnimation: true})
	assert.True(t, res.IsAllowed)

	res, _ = gifs.Process(ctx, pipeline.Payload{ChatID: chatID, SenderID: 42, IsAnimation: true})
	assert.False(t, res.IsAllowed)
	assert.Equal(t, messages.ReasonGifLimit, res.Reason)
}

func TestAlbumFilterDeduplicates(t *testing.T) {
	st := testStore(t)
	f := NewAlbumFilter(antispam.NewAlbums(), st)
	ctx := context.Background()

	item := pipeline.Payload{ChatID: chatID, SenderID: 42, AlbumID: "g1", Caption: "nice photos"}

	res, err := f.Process(ctx, item)
	require.NoError(t, err)
	assert.True(t, res.IsAllowed)
	assert.True(t, res.Halt, "first album item is checked and then halts")

	for i := 0; i < 3; i++ {
		res, err = f.Process(ctx, item)
		require.NoError(t, err)
		assert.True(t, res.IsAllowed)
		assert.True(t, res.Halt)
	}
}

func TestAlbumFilterCaptionLink(t *testing.T) {
	st := testStore(t)
	f := NewAlbumFilter(antispam.NewAlbums(), st)

	res, err := f.Process(context.Background(), pipeline.Payload{
		ChatID: chatID, SenderID: 42, AlbumID: "g2", Caption: "buy at t.me/spam",
	})
	require.NoError(t, err)
	assert.False(t, res.IsAllowed)
	assert.Equal(t, messages.ReasonAlbumLink, res.Reason)
}

func TestAlbumFilterIgnoresNonAlbum(t *testing.T) {
	st := testStore(t)
	f := NewAlbumFilter(antispam.NewAlbums(), st)

	res, err := f.Process(context.Background(), payloadFor(42, "plain"))
	require.NoError(t, err)
	assert.True(t, res.IsAllowed)
	assert.False(t, res.Halt)
}
