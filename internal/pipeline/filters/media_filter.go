package filters

import (
	"context"
	"time"

	"telegram-guard-bot/internal/antispam"
	"telegram-guard-bot/internal/messages"
	"telegram-guard-bot/internal/pipeline"
	"telegram-guard-bot/internal/store"
)

// StickerFilter applies the per-chat sticker policy: allow, ban outright,
// or cap the number of stickers inside the media window. A sticker that
// survives the policy halts the chain so text filters never see it.
type StickerFilter struct {
	windows *antispam.Windows
	store   *store.Store
}

func NewStickerFilter(windows *antispam.Windows, st *store.Store) *StickerFilter {
	return &StickerFilter{windows: windows, store: st}
}

func (f *StickerFilter) Name() string {
	return "sticker_filter"
}

func (f *StickerFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	if !payload.IsSticker {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	settings := f.store.GetSettings(payload.ChatID)
	return mediaVerdict(f.windows, payload, f.Name(), "sticker",
		settings.StickerMode, settings.StickerLimit, settings.MediaWindow,
		messages.ReasonStickerBan, messages.ReasonStickerLimit), nil
}

// AnimationFilter is the GIF counterpart of StickerFilter with its own
// mode, limit and counter category.
type AnimationFilter struct {
	windows *antispam.Windows
	store   *store.Store
}

func NewAnimationFilter(windows *antispam.Windows, st *store.Store) *AnimationFilter {
	return &AnimationFilter{windows: windows, store: st}
}

func (f *AnimationFilter) Name() string {
	return "animation_filter"
}

func (f *AnimationFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	if !payload.IsAnimation {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	settings := f.store.GetSettings(payload.ChatID)
	return mediaVerdict(f.windows, payload, f.Name(), "animation",
		settings.GifMode, settings.GifLimit, settings.MediaWindow,
		messages.ReasonGifBan, messages.ReasonGifLimit), nil
}

func mediaVerdict(windows *antispam.Windows, payload pipeline.Payload, filterName, category,
	mode string, limit, windowSec int, banReason, limitReason string) *pipeline.Result {
	switch mode {
	case store.ModeBan:
		return &pipeline.Result{
			IsAllowed:  false,
			Reason:     banReason,
			FilterName: filterName,
		}
	case store.ModeLimit:
		count := windows.Record(payload.ChatID, payload.SenderID, category,
			time.Now(), time.Duration(windowSec)*time.Second)
		if count > limit {
			return &pipeline.Result{
				IsAllowed:  false,
				Reason:     limitReason,
				FilterName: filterName,
			}
		}
	}
	return &pipeline.Result{IsAllowed: true, Halt: true, FilterName: filterName}
}
