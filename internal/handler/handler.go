// Package handler wires bot updates to the moderation service. It owns
// argument parsing and reply texts; every decision lives in the service.
package handler

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	tb "gopkg.in/telebot.v3"

	"telegram-guard-bot/internal/config"
	"telegram-guard-bot/internal/messages"
	"telegram-guard-bot/internal/service"
)

type Handler struct {
	logger *slog.Logger
	svc    service.Service
	bot    *tb.Bot
	cfg    *config.Config
	tracer trace.Tracer
}

func NewHandler(logger *slog.Logger, svc service.Service, bot *tb.Bot, cfg *config.Config) *Handler {
	return &Handler{
		logger: logger,
		svc:    svc,
		bot:    bot,
		cfg:    cfg,
		tracer: otel.Tracer("handler"),
	}
}

// Register attaches all update and command handlers to the bot.
func (h *Handler) Register() {
	for _, event := range []string{
		tb.OnText, tb.OnSticker, tb.OnAnimation,
		tb.OnPhoto, tb.OnVideo, tb.OnDocument, tb.OnVoice, tb.OnVideoNote,
	} {
		h.bot.Handle(event, h.onGroupMessage)
	}
	h.bot.Handle(tb.OnUserJoined, h.onUserJoined)

	h.bot.Handle("/warn", h.inGroup(h.onWarn))
	h.bot.Handle("/mute", h.inGroup(h.onMute))
	h.bot.Handle("/unmute", h.inGroup(h.onUnmute))
	h.bot.Handle("/ban", h.inGroup(h.onBan))
	h.bot.Handle("/unban", h.inGroup(h.onUnban))
	h.bot.Handle("/kick", h.inGroup(h.onKick))
	h.bot.Handle("/setrole", h.inGroup(h.onSetRole))
	h.bot.Handle("/delrole", h.inGroup(h.onDelRole))
	h.bot.Handle("/admins", h.inGroup(h.onAdmins))
	h.bot.Handle("/automute", h.inGroup(h.onAutoMute))
	h.bot.Handle("/set", h.inGroup(h.onSetSetting))
	h.bot.Handle("/settings", h.inGroup(h.onSettings))
	h.bot.Handle("/rules", h.inGroup(h.onRules))
	h.bot.Handle("/setrules", h.inGroup(h.onSetRules))
	h.bot.Handle("/setforum", h.inGroup(h.onSetForum))
	h.bot.Handle("/inactive", h.inGroup(h.onInactive))
	h.bot.Handle("/wl_add", h.inGroup(h.onWhitelistAdd))
	h.bot.Handle("/wl_remove", h.inGroup(h.onWhitelistRemove))
	h.bot.Handle("/wl_list", h.inGroup(h.onWhitelistList))
	h.bot.Handle("/invite", h.inGroup(h.onInvite))
	h.bot.Handle("/to_main", h.inGroup(h.onToMain))
	h.bot.Handle("/commands", h.inGroup(h.onCommands))
}

func isGroup(chat *tb.Chat) bool {
	return chat != nil && (chat.Type == tb.ChatGroup || chat.Type == tb.ChatSuperGroup)
}

// inGroup rejects commands issued outside group chats.
func (h *Handler) inGroup(next tb.HandlerFunc) tb.HandlerFunc {
	return func(c tb.Context) error {
		if !isGroup(c.Chat()) {
			return c.Reply(messages.MsgGroupsOnly)
		}
		return next(c)
	}
}
