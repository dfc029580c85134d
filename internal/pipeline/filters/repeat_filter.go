package filters

import (
	"context"

	"telegram-guard-bot/internal/antispam"
	"telegram-guard-bot/internal/messages"
	"telegram-guard-bot/internal/pipeline"
	"telegram-guard-bot/internal/store"
	"telegram-guard-bot/internal/utils"
)

// RepeatFilter catches users posting the same text over and over. The
// caption of a media message counts as its text. The run length is
// compared against the chat's repeat limit inclusively: the limit-th
// identical message already violates.
type RepeatFilter struct {
	repeats *antispam.Repeats
	store   *store.Store
}

func NewRepeatFilter(repeats *antispam.Repeats, st *store.Store) *RepeatFilter {
	return &RepeatFilter{repeats: repeats, store: st}
}

func (f *RepeatFilter) Name() string {
	return "repeat_filter"
}

func (f *RepeatFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	text := payload.Text
	if text == "" {
		text = payload.Caption
	}
	if utils.NormalizeText(text) == "" {
		return &pipeline.Result{IsAllowed: true}, nil
	}

	settings := f.store.GetSettings(payload.ChatID)
	count := f.repeats.Record(payload.ChatID, payload.SenderID, antispam.Fingerprint(text))
	if count >= settings.RepeatLimit {
		return &pipeline.Result{
			IsAllowed:  false,
			Reason:     messages.ReasonRepeat,
			FilterName: f.Name(),
		}, nil
	}
	return &pipeline.Result{IsAllowed: true}, nil
}
