package filters

import (
	"context"
	"time"

	"telegram-guard-bot/internal/antispam"
	"telegram-guard-bot/internal/messages"
	"telegram-guard-bot/internal/pipeline"
	"telegram-guard-bot/internal/store"
	"telegram-guard-bot/internal/utils"
)

// AlbumFilter collapses a media group to a single moderation decision.
// Only the first item of a group is inspected (its caption, for links);
// every later item is passed through without touching any counters.
type AlbumFilter struct {
	albums *antispam.Albums
	store  *store.Store
}

func NewAlbumFilter(albums *antispam.Albums, st *store.Store) *AlbumFilter {
	return &AlbumFilter{albums: albums, store: st}
}

func (f *AlbumFilter) Name() string {
	return "album_filter"
}

func (f *AlbumFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	if payload.AlbumID == "" {
		return &pipeline.Result{IsAllowed: true}, nil
	}

	first := f.albums.Observe(payload.ChatID, payload.SenderID, payload.AlbumID, time.Now())
	if !first {
		return &pipeline.Result{IsAllowed: true, Halt: true, FilterName: f.Name()}, nil
	}

	settings := f.store.GetSettings(payload.ChatID)
	if settings.BlockLinks && utils.ContainsLink(payload.Caption) {
		return &pipeline.Result{
			IsAllowed:  false,
			Reason:     messages.ReasonAlbumLink,
			FilterName: f.Name(),
		}, nil
	}
	return &pipeline.Result{IsAllowed: true, Halt: true, FilterName: f.Name()}, nil
}
