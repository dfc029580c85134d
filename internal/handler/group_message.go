package handler

import (
	"context"
	"time"

	tb "gopkg.in/telebot.v3"

	"telegram-guard-bot/internal/metrics"
	"telegram-guard-bot/internal/pipeline"
)

// onGroupMessage feeds every non-command group message through the
// moderation pipeline. Messages from other bots are ignored.
func (h *Handler) onGroupMessage(c tb.Context) error {
	msg := c.Message()
	if !wantsModeration(msg) {
		return nil
	}

	ctx, span := h.tracer.Start(context.Background(), "onGroupMessage")
	defer span.End()

	start := time.Now()
	res, err := h.svc.HandleMessage(ctx, buildPayload(msg))
	metrics.ObserveUpdateProcessing("group_message", time.Since(start).Seconds(), err)
	if err != nil {
		h.logger.Error("message handling failed",
			"chat_id", msg.Chat.ID, "message_id", msg.ID, "error", err)
		return nil
	}

	if !res.IsAllowed {
		h.logger.Debug("message blocked",
			"chat_id", msg.Chat.ID, "user_id", msg.Sender.ID,
			"reason", res.Reason, "filter", res.FilterName)
	}
	return nil
}

// onUserJoined greets newcomers with the chat rules when they are set.
func (h *Handler) onUserJoined(c tb.Context) error {
	if !isGroup(c.Chat()) {
		return nil
	}
	rules := h.svc.Rules(context.Background(), c.Chat().ID)
	if rules == "" {
		return nil
	}
	return c.Reply(rules)
}

// wantsModeration reports whether a message should go through the
// pipeline: a group message from a real (non-bot) user.
func wantsModeration(msg *tb.Message) bool {
	return msg != nil && isGroup(msg.Chat) && msg.Sender != nil && !msg.Sender.IsBot
}

func buildPayload(msg *tb.Message) pipeline.Payload {
	return pipeline.Payload{
		ChatID:      msg.Chat.ID,
		SenderID:    msg.Sender.ID,
		MessageID:   msg.ID,
		Username:    senderName(msg.Sender),
		Text:        msg.Text,
		Caption:     msg.Caption,
		AlbumID:     msg.AlbumID,
		IsSticker:   msg.Sticker != nil,
		IsAnimation: msg.Animation != nil,
	}
}

func senderName(u *tb.User) string {
	if u.Username != "" {
		return u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
