package filters

import (
	"context"

	"telegram-guard-bot/internal/messages"
	"telegram-guard-bot/internal/pipeline"
	"telegram-guard-bot/internal/store"
	"telegram-guard-bot/internal/utils"
)

// LinkFilter blocks messages carrying URLs when the chat forbids links.
// Captions of single media messages count; album captions are handled
// by AlbumFilter before the chain reaches here.
type LinkFilter struct {
	store *store.Store
}

func NewLinkFilter(st *store.Store) *LinkFilter {
	return &LinkFilter{store: st}
}

func (f *LinkFilter) Name() string {
	return "link_filter"
}

func (f *LinkFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	settings := f.store.GetSettings(payload.ChatID)
	if settings.BlockLinks && (utils.ContainsLink(payload.Text) || utils.ContainsLink(payload.Caption)) {
		return &pipeline.Result{
			IsAllowed:  false,
			Reason:     messages.ReasonLink,
			FilterName: f.Name(),
		}, nil
	}
	return &pipeline.Result{IsAllowed: true}, nil
}
