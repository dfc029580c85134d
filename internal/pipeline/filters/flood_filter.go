package filters

import (
	"context"
	"time"

	"telegram-guard-bot/internal/antispam"
	"telegram-guard-bot/internal/messages"
	"telegram-guard-bot/internal/pipeline"
	"telegram-guard-bot/internal/store"
)

// FloodFilter caps how many messages a user may send inside the flood
// window. The limit-th message still passes; the one after it violates.
type FloodFilter struct {
	windows *antispam.Windows
	store   *store.Store
}

func NewFloodFilter(windows *antispam.Windows, st *store.Store) *FloodFilter {
	return &FloodFilter{windows: windows, store: st}
}

func (f *FloodFilter) Name() string {
	return "flood_filter"
}

func (f *FloodFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	settings := f.store.GetSettings(payload.ChatID)
	count := f.windows.Record(payload.ChatID, payload.SenderID, "message",
		time.Now(), time.Duration(settings.FloodWindow)*time.Second)
	if count > settings.FloodLimit {
		return &pipeline.Result{
			IsAllowed:  false,
			Reason:     messages.ReasonFlood,
			FilterName: f.Name(),
		}, nil
	}
	return &pipeline.Result{IsAllowed: true}, nil
}
