package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tb "gopkg.in/telebot.v3"

	"telegram-guard-bot/internal/messages"
	"telegram-guard-bot/internal/roles"
	"telegram-guard-bot/internal/service"
	"telegram-guard-bot/internal/utils"
)

const defaultMuteDuration = time.Hour

// args returns the command arguments, the command word itself stripped.
func args(c tb.Context) []string {
	parts := utils.SplitArgs(c.Message().Text)
	if len(parts) == 0 {
		return nil
	}
	return parts[1:]
}

// resolveTarget picks the command target: the replied-to sender when the
// command is a reply, otherwise the first argument (@username or id).
func (h *Handler) resolveTarget(c tb.Context, argv []string) (int64, []string, bool) {
	if reply := c.Message().ReplyTo; reply != nil && reply.Sender != nil {
		return reply.Sender.ID, argv, true
	}
	if len(argv) == 0 {
		return 0, nil, false
	}
	id, ok := h.svc.ResolveTarget(context.Background(), c.Chat().ID, argv[0])
	if !ok {
		return 0, nil, false
	}
	return id, argv[1:], true
}

// replyErr maps service errors onto user-facing replies; unknown errors
// get the generic fallback and a log line.
func (h *Handler) replyErr(c tb.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		return c.Reply(messages.MsgNoRights)
	case errors.Is(err, service.ErrCannotModerate):
		return c.Reply(messages.MsgCannotModerate)
	case errors.Is(err, service.ErrInvalidField), errors.Is(err, service.ErrInvalidValue):
		return c.Reply(messages.MsgBadSettingField)
	case errors.Is(err, service.ErrInvalidRole):
		return c.Reply(messages.MsgBadRole)
	case errors.Is(err, service.ErrCreatorOnly):
		return c.Reply(messages.MsgCreatorRoleOnly)
	case errors.Is(err, service.ErrInvalidDuration):
		return c.Reply(messages.MsgBadAutoMuteRange)
	case errors.Is(err, service.ErrWrongChat):
		return c.Reply(messages.MsgTestChatOnly)
	case errors.Is(err, service.ErrNotConfigured):
		return c.Reply(messages.MsgChatsUnconfigured)
	}
	h.logger.Error("command failed", "chat_id", c.Chat().ID, "text", c.Message().Text, "error", err)
	return c.Reply(fallback)
}

func (h *Handler) onWarn(c tb.Context) error {
	target, rest, ok := h.resolveTarget(c, args(c))
	if !ok {
		return c.Reply(messages.MsgTargetNotFound)
	}
	reason := strings.Join(rest, " ")
	if reason == "" {
		reason = "не указана"
	}

	count, muted, err := h.svc.WarnUser(context.Background(), c.Chat().ID, c.Sender().ID, target, reason)
	if err != nil {
		return h.replyErr(c, err, messages.MsgMuteFailed)
	}
	text := fmt.Sprintf("⚠️ Предупреждение %d/3. Причина: %s", count, reason)
	if muted {
		text += "\n🔇 Выдан автоматический мут на 1 час."
	}
	return c.Reply(text)
}

func (h *Handler) onMute(c tb.Context) error {
	target, rest, ok := h.resolveTarget(c, args(c))
	if !ok {
		return c.Reply(messages.MsgTargetNotFound)
	}
	duration := defaultMuteDuration
	if len(rest) > 0 {
		sec, ok := utils.ParseDurationSeconds(strings.Join(rest, ""))
		if !ok || sec <= 0 {
			return c.Reply(messages.MsgBadDuration)
		}
		duration = time.Duration(sec) * time.Second
	}

	if err := h.svc.MuteUser(context.Background(), c.Chat().ID, c.Sender().ID, target, duration); err != nil {
		return h.replyErr(c, err, messages.MsgMuteFailed)
	}
	return c.Reply(fmt.Sprintf("🔇 Мут на %s.", utils.FormatDuration(int(duration.Seconds()))))
}

func (h *Handler) onUnmute(c tb.Context) error {
	target, _, ok := h.resolveTarget(c, args(c))
	if !ok {
		return c.Reply(messages.MsgTargetNotFound)
	}
	if err := h.svc.UnmuteUser(context.Background(), c.Chat().ID, c.Sender().ID, target); err != nil {
		return h.replyErr(c, err, messages.MsgUnmuteFailed)
	}
	return c.Reply("🔊 Мут снят.")
}

func (h *Handler) onBan(c tb.Context) error {
	target, _, ok := h.resolveTarget(c, args(c))
	if !ok {
		return c.Reply(messages.MsgTargetNotFound)
	}
	if err := h.svc.BanUser(context.Background(), c.Chat().ID, c.Sender().ID, target); err != nil {
		return h.replyErr(c, err, messages.MsgBanFailed)
	}
	return c.Reply("🚫 Пользователь забанен.")
}

func (h *Handler) onUnban(c tb.Context) error {
	target, _, ok := h.resolveTarget(c, args(c))
	if !ok {
		return c.Reply(messages.MsgTargetNotFound)
	}
	if err := h.svc.UnbanUser(context.Background(), c.Chat().ID, c.Sender().ID, target); err != nil {
		return h.replyErr(c, err, messages.MsgUnbanFailed)
	}
	return c.Reply("♻️ Пользователь разбанен.")
}

func (h *Handler) onKick(c tb.Context) error {
	target, _, ok := h.resolveTarget(c, args(c))
	if !ok {
		return c.Reply(messages.MsgTargetNotFound)
	}
	if err := h.svc.KickUser(context.Background(), c.Chat().ID, c.Sender().ID, target); err != nil {
		return h.replyErr(c, err, messages.MsgKickFailed)
	}
	return c.Reply("👞 Пользователь кикнут.")
}

func (h *Handler) onSetRole(c tb.Context) error {
	target, rest, ok := h.resolveTarget(c, args(c))
	if !ok || len(rest) == 0 {
		return c.Reply(messages.MsgTargetNotFound)
	}
	roleName := rest[0]
	if err := h.svc.SetRole(context.Background(), c.Chat().ID, c.Sender().ID, target, roleName); err != nil {
		return h.replyErr(c, err, messages.MsgBadRole)
	}
	role, _ := roles.Parse(roleName)
	return c.Reply(fmt.Sprintf("✅ Назначена роль: %s", role.Title()))
}

func (h *Handler) onDelRole(c tb.Context) error {
	target, _, ok := h.resolveTarget(c, args(c))
	if !ok {
		return c.Reply(messages.MsgTargetNotFound)
	}
	if err := h.svc.DelRole(context.Background(), c.Chat().ID, c.Sender().ID, target); err != nil {
		return h.replyErr(c, err, messages.MsgNoRights)
	}
	return c.Reply("✅ Роль снята.")
}

func (h *Handler) onAdmins(c tb.Context) error {
	assignments := h.svc.ListRoles(context.Background(), c.Chat().ID)
	if len(assignments) == 0 {
		return c.Reply("Роли ещё никому не назначены.")
	}
	var sb strings.Builder
	sb.WriteString("👥 Команда чата:\n")
	for _, a := range assignments {
		fmt.Fprintf(&sb, "• %s — id %d\n", a.Role.Title(), a.UserID)
	}
	return c.Reply(sb.String())
}

func (h *Handler) onAutoMute(c tb.Context) error {
	argv := args(c)
	if len(argv) == 0 {
		return c.Reply(messages.MsgBadAutoMuteRange)
	}
	sec, ok := utils.ParseDurationSeconds(strings.Join(argv, ""))
	if !ok {
		return c.Reply(messages.MsgBadAutoMuteRange)
	}
	if err := h.svc.SetAutoMute(context.Background(), c.Chat().ID, c.Sender().ID, sec); err != nil {
		return h.replyErr(c, err, messages.MsgBadAutoMuteRange)
	}
	return c.Reply(fmt.Sprintf("✅ Авто-мут: %s.", utils.FormatDuration(sec)))
}

func (h *Handler) onSetSetting(c tb.Context) error {
	argv := args(c)
	if len(argv) < 2 {
		return c.Reply(messages.MsgBadSettingField)
	}
	value, err := h.svc.SetSetting(context.Background(), c.Chat().ID, c.Sender().ID, argv[0], argv[1])
	if err != nil {
		return h.replyErr(c, err, messages.MsgBadSettingField)
	}
	return c.Reply(fmt.Sprintf("✅ %s = %s", argv[0], value))
}

func (h *Handler) onSettings(c tb.Context) error {
	s := h.svc.Settings(context.Background(), c.Chat().ID)
	text := fmt.Sprintf(
		"⚙️ Настройки автомодерации:\n"+
			"enabled: %v\n"+
			"flood_limit: %d за %d сек\n"+
			"repeat_limit: %d\n"+
			"block_links: %v\n"+
			"sticker_mode: %s (лимит %d)\n"+
			"gif_mode: %s (лимит %d)\n"+
			"media_window: %d сек\n"+
			"action: %s (мут %s)\n"+
			"cleanup: %v, %d дн., режим %s",
		s.Enabled,
		s.FloodLimit, s.FloodWindow,
		s.RepeatLimit,
		s.BlockLinks,
		s.StickerMode, s.StickerLimit,
		s.GifMode, s.GifLimit,
		s.MediaWindow,
		s.Action, utils.FormatDuration(s.MuteSeconds),
		s.CleanupEnabled, s.CleanupDays, s.CleanupMode,
	)
	return c.Reply(text)
}

func (h *Handler) onRules(c tb.Context) error {
	rules := h.svc.Rules(context.Background(), c.Chat().ID)
	if rules == "" {
		return c.Reply(messages.MsgRulesNotSet)
	}
	return c.Reply(rules)
}

func (h *Handler) onSetRules(c tb.Context) error {
	// Take the raw tail of the message so multi-line rules survive.
	text := c.Message().Text
	if _, rest, found := strings.Cut(text, " "); found {
		text = strings.TrimSpace(rest)
	} else {
		text = ""
	}
	if text == "" {
		return c.Reply(messages.MsgRulesNotSet)
	}
	if err := h.svc.SetRules(context.Background(), c.Chat().ID, c.Sender().ID, text); err != nil {
		return h.replyErr(c, err, messages.MsgNoRights)
	}
	return c.Reply(messages.MsgRulesUpdated)
}

// onSetForum points the chat's audit log at the topic the command was
// issued in.
func (h *Handler) onSetForum(c tb.Context) error {
	msg := c.Message()
	if err := h.svc.SetLogChannel(context.Background(), msg.Chat.ID, c.Sender().ID, msg.Chat.ID, msg.ThreadID); err != nil {
		return h.replyErr(c, err, messages.MsgNoRights)
	}
	return c.Reply(messages.MsgLogChannelSet)
}

func (h *Handler) onInactive(c tb.Context) error {
	ctx := context.Background()
	chatID, actorID := c.Chat().ID, c.Sender().ID

	count, err := h.svc.InactiveCount(ctx, chatID, actorID)
	if err != nil {
		return h.replyErr(c, err, messages.MsgNoRights)
	}
	if count == 0 {
		return c.Reply("Неактивных нет. 🎉")
	}

	users, err := h.svc.InactiveList(ctx, chatID, actorID, 30, 0)
	if err != nil {
		return h.replyErr(c, err, messages.MsgNoRights)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "💤 Неактивных: %s\n",
		utils.Plural(int64(count), [3]string{"пользователь", "пользователя", "пользователей"}))
	for _, u := range users {
		fmt.Fprintf(&sb, "• id %d, был(а) %s\n", u.UserID, time.Unix(u.LastTS, 0).Format("02.01.2006"))
	}
	if count > len(users) {
		fmt.Fprintf(&sb, "… и ещё %d", count-len(users))
	}
	return c.Reply(sb.String())
}

func (h *Handler) onWhitelistAdd(c tb.Context) error {
	target, _, ok := h.resolveTarget(c, args(c))
	if !ok {
		return c.Reply(messages.MsgTargetNotFound)
	}
	if err := h.svc.WhitelistAdd(context.Background(), c.Chat().ID, c.Sender().ID, target); err != nil {
		return h.replyErr(c, err, messages.MsgNoRights)
	}
	return c.Reply(fmt.Sprintf("✅ id %d добавлен в whitelist.", target))
}

func (h *Handler) onWhitelistRemove(c tb.Context) error {
	target, _, ok := h.resolveTarget(c, args(c))
	if !ok {
		return c.Reply(messages.MsgTargetNotFound)
	}
	if err := h.svc.WhitelistRemove(context.Background(), c.Chat().ID, c.Sender().ID, target); err != nil {
		return h.replyErr(c, err, messages.MsgNoRights)
	}
	return c.Reply(fmt.Sprintf("✅ id %d убран из whitelist.", target))
}

func (h *Handler) onWhitelistList(c tb.Context) error {
	ids, err := h.svc.WhitelistList(context.Background(), c.Chat().ID, c.Sender().ID)
	if err != nil {
		return h.replyErr(c, err, messages.MsgNoRights)
	}
	if len(ids) == 0 {
		return c.Reply(messages.MsgWhitelistEmpty)
	}
	var sb strings.Builder
	sb.WriteString("📋 Whitelist:\n")
	for _, id := range ids {
		fmt.Fprintf(&sb, "• id %d\n", id)
	}
	return c.Reply(sb.String())
}

func (h *Handler) onInvite(c tb.Context) error {
	link, err := h.svc.CreateInvite(context.Background(), c.Chat().ID, c.Sender().ID)
	if err != nil {
		return h.replyErr(c, err, messages.MsgInviteFailed)
	}
	return c.Reply(fmt.Sprintf("🔗 Одноразовая ссылка в основную группу:\n%s", link))
}

func (h *Handler) onToMain(c tb.Context) error {
	reply := c.Message().ReplyTo
	if reply == nil {
		return c.Reply(messages.MsgTargetNotFound)
	}
	if err := h.svc.MoveToMain(context.Background(), c.Chat().ID, c.Sender().ID, reply.ID); err != nil {
		return h.replyErr(c, err, messages.MsgMoveFailed)
	}
	return c.Reply("✅ Отправлено в основную группу.")
}

func (h *Handler) onCommands(c tb.Context) error {
	return c.Reply(
		"📖 Команды:\n" +
			"/warn, /mute [время], /unmute — модератор+\n" +
			"/to_main (ответом) — модератор+\n" +
			"/ban, /unban — админ+\n" +
			"/kick, /setrole, /delrole — руководитель+\n" +
			"/set <параметр> <значение>, /settings, /automute — руководитель+\n" +
			"/setrules, /setforum, /inactive — руководитель+\n" +
			"/wl_add, /wl_remove, /wl_list — руководитель+\n" +
			"/invite — в тестовой группе\n" +
			"/rules, /admins, /commands — всем")
}
