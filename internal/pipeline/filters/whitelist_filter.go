package filters

import (
	"context"

	"telegram-guard-bot/internal/pipeline"
	"telegram-guard-bot/internal/store"
)

// WhitelistFilter lets explicitly trusted users through untouched.
type WhitelistFilter struct {
	store *store.Store
}

func NewWhitelistFilter(st *store.Store) *WhitelistFilter {
	return &WhitelistFilter{store: st}
}

func (f *WhitelistFilter) Name() string {
	return "whitelist_filter"
}

func (f *WhitelistFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	if f.store.IsWhitelisted(payload.ChatID, payload.SenderID) {
		return &pipeline.Result{IsAllowed: true, Halt: true, FilterName: f.Name()}, nil
	}
	return &pipeline.Result{IsAllowed: true}, nil
}
