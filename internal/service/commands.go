package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"telegram-guard-bot/internal/metrics"
	"telegram-guard-bot/internal/roles"
	"telegram-guard-bot/internal/store"
	"telegram-guard-bot/internal/utils"
)

var (
	ErrNotAuthorized   = errors.New("not authorized")
	ErrCannotModerate  = errors.New("target cannot be moderated")
	ErrInvalidField    = errors.New("unknown setting field")
	ErrInvalidValue    = errors.New("invalid setting value")
	ErrInvalidRole     = errors.New("unknown role")
	ErrCreatorOnly     = errors.New("creator role is assignable only by the creator")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrWrongChat       = errors.New("command not available in this chat")
	ErrNotConfigured   = errors.New("invite chats are not configured")
)

const warnMuteThreshold = 3

func (s *ModerationService) requireRole(ctx context.Context, chatID, actorID int64, action string) error {
	if !s.auth.CanUse(ctx, chatID, actorID, action) {
		return ErrNotAuthorized
	}
	return nil
}

func (s *ModerationService) requireTarget(ctx context.Context, chatID, actorID, targetID int64, action string) error {
	if err := s.requireRole(ctx, chatID, actorID, action); err != nil {
		return err
	}
	if !s.auth.CanModerateTarget(ctx, chatID, actorID, targetID) {
		return ErrCannotModerate
	}
	return nil
}

func parseUserID(arg string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes", "да", "вкл":
		return true, true
	case "off", "false", "0", "no", "нет", "выкл":
		return false, true
	}
	return false, false
}

func parseMode(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case store.ModeAllow, store.ModeLimit, store.ModeBan:
		return strings.ToLower(strings.TrimSpace(v)), true
	}
	return "", false
}

// applySetting mutates one automoderation field by its snake_case name,
// returning the stored value rendered as text. Numeric fields are
// clamped into their sane ranges rather than rejected. The short window
// names are accepted alongside the persisted *_sec spellings.
func applySetting(cs *store.ChatSettings, field, value string) (string, error) {
	switch field {
	case "enabled":
		b, ok := parseBool(value)
		if !ok {
			return "", ErrInvalidValue
		}
		cs.Enabled = b
		return strconv.FormatBool(b), nil
	case "block_links":
		b, ok := parseBool(value)
		if !ok {
			return "", ErrInvalidValue
		}
		cs.BlockLinks = b
		return strconv.FormatBool(b), nil
	case "cleanup_enabled":
		b, ok := parseBool(value)
		if !ok {
			return "", ErrInvalidValue
		}
		cs.CleanupEnabled = b
		return strconv.FormatBool(b), nil
	case "flood_limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", ErrInvalidValue
		}
		cs.FloodLimit = clamp(n, 2, 50)
		return strconv.Itoa(cs.FloodLimit), nil
	case "flood_window_sec", "flood_window":
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", ErrInvalidValue
		}
		cs.FloodWindow = clamp(n, 3, 120)
		return strconv.Itoa(cs.FloodWindow), nil
	case "repeat_limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", ErrInvalidValue
		}
		cs.RepeatLimit = clamp(n, 2, 10)
		return strconv.Itoa(cs.RepeatLimit), nil
	case "sticker_limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", ErrInvalidValue
		}
		cs.StickerLimit = clamp(n, 1, 30)
		return strconv.Itoa(cs.StickerLimit), nil
	case "gif_limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", ErrInvalidValue
		}
		cs.GifLimit = clamp(n, 1, 30)
		return strconv.Itoa(cs.GifLimit), nil
	case "media_window_sec", "media_window":
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", ErrInvalidValue
		}
		cs.MediaWindow = clamp(n, 3, 120)
		return strconv.Itoa(cs.MediaWindow), nil
	case "cleanup_days":
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", ErrInvalidValue
		}
		cs.CleanupDays = clamp(n, 1, 365)
		return strconv.Itoa(cs.CleanupDays), nil
	case "sticker_mode":
		m, ok := parseMode(value)
		if !ok {
			return "", ErrInvalidValue
		}
		cs.StickerMode = m
		return m, nil
	case "gif_mode":
		m, ok := parseMode(value)
		if !ok {
			return "", ErrInvalidValue
		}
		cs.GifMode = m
		return m, nil
	case "action":
		v := strings.ToLower(strings.TrimSpace(value))
		if v != store.ActionDelete && v != store.ActionMute {
			return "", ErrInvalidValue
		}
		cs.Action = v
		return v, nil
	case "cleanup_mode":
		v := strings.ToLower(strings.TrimSpace(value))
		if v != store.CleanupKick && v != store.CleanupBan {
			return "", ErrInvalidValue
		}
		cs.CleanupMode = v
		return v, nil
	}
	return "", ErrInvalidField
}

// SetSetting validates and applies one settings field. An unknown field
// or a bad value is rejected before the store is touched: no record is
// created and nothing is persisted.
func (s *ModerationService) SetSetting(ctx context.Context, chatID, actorID int64, field, value string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "SetSetting")
	defer span.End()

	if err := s.requireRole(ctx, chatID, actorID, roles.ActionSettings); err != nil {
		return "", err
	}

	// Dry run against a copy of the current record.
	scratch := s.store.GetSettings(chatID)
	rendered, err := applySetting(scratch, field, value)
	if err != nil {
		return "", err
	}

	s.store.UpdateSettings(chatID, func(cs *store.ChatSettings) {
		applySetting(cs, field, value)
	})
	s.logger.Info("setting updated", "chat_id", chatID, "actor_id", actorID, "field", field, "value", rendered)
	return rendered, nil
}

// SetAutoMute sets the automoderation mute length. Unlike SetSetting it
// rejects out-of-range values instead of clamping, so the admin learns
// the accepted range.
func (s *ModerationService) SetAutoMute(ctx context.Context, chatID, actorID int64, seconds int) error {
	ctx, span := s.tracer.Start(ctx, "SetAutoMute")
	defer span.End()

	if err := s.requireRole(ctx, chatID, actorID, roles.ActionAutoMute); err != nil {
		return err
	}
	if seconds < 30 || seconds > 86400 {
		return ErrInvalidDuration
	}
	s.store.UpdateSettings(chatID, func(cs *store.ChatSettings) {
		cs.MuteSeconds = seconds
	})
	return nil
}

func (s *ModerationService) SetRole(ctx context.Context, chatID, actorID, targetID int64, roleName string) error {
	ctx, span := s.tracer.Start(ctx, "SetRole")
	defer span.End()

	if err := s.requireRole(ctx, chatID, actorID, roles.ActionSetRole); err != nil {
		return err
	}
	role, ok := roles.Parse(roleName)
	if !ok || role == roles.None {
		return ErrInvalidRole
	}
	if role == roles.Creator && s.auth.EffectiveRole(ctx, chatID, actorID) != roles.Creator {
		return ErrCreatorOnly
	}
	s.store.SetRole(chatID, targetID, role)
	s.logger.Info("role assigned", "chat_id", chatID, "actor_id", actorID, "target_id", targetID, "role", role)
	return nil
}

func (s *ModerationService) DelRole(ctx context.Context, chatID, actorID, targetID int64) error {
	ctx, span := s.tracer.Start(ctx, "DelRole")
	defer span.End()

	if err := s.requireRole(ctx, chatID, actorID, roles.ActionDelRole); err != nil {
		return err
	}
	s.store.DelRole(chatID, targetID)
	s.logger.Info("role removed", "chat_id", chatID, "actor_id", actorID, "target_id", targetID)
	return nil
}

// WarnUser records a warning and auto-mutes the target for one hour on
// every third warning. Returns the new count and whether a mute fired.
func (s *ModerationService) WarnUser(ctx context.Context, chatID, actorID, targetID int64, reason string) (int, bool, error) {
	ctx, span := s.tracer.Start(ctx, "WarnUser")
	defer span.End()

	if err := s.requireTarget(ctx, chatID, actorID, targetID, roles.ActionWarn); err != nil {
		return 0, false, err
	}

	count := s.store.AddWarn(chatID, targetID, actorID, reason)
	metrics.IncWarn()

	muted := count%warnMuteThreshold == 0
	if muted {
		until := time.Now().Add(time.Hour)
		if err := s.client.RestrictMember(ctx, chatID, targetID, until); err != nil {
			s.bestEffort("restrict_member", err, "chat_id", chatID, "user_id", targetID)
			muted = false
		}
	}

	s.audit(ctx, chatID, fmt.Sprintf(
		"⚠️ Предупреждение №%d\nПользователь: id %d\nОт: id %d\nПричина: %s",
		count, targetID, actorID, reason,
	), "chat_id", chatID, "target_id", targetID, "actor_id", actorID, "warn_count", count)

	return count, muted, nil
}

func (s *ModerationService) MuteUser(ctx context.Context, chatID, actorID, targetID int64, duration time.Duration) error {
	ctx, span := s.tracer.Start(ctx, "MuteUser")
	defer span.End()

	if err := s.requireTarget(ctx, chatID, actorID, targetID, roles.ActionMute); err != nil {
		return err
	}
	if err := s.client.RestrictMember(ctx, chatID, targetID, time.Now().Add(duration)); err != nil {
		s.bestEffort("restrict_member", err, "chat_id", chatID, "user_id", targetID)
		return fmt.Errorf("restrict member: %w", err)
	}
	s.audit(ctx, chatID, fmt.Sprintf("🔇 Мут на %s\nПользователь: id %d\nОт: id %d",
		utils.FormatDuration(int(duration.Seconds())), targetID, actorID),
		"chat_id", chatID, "target_id", targetID, "actor_id", actorID)
	return nil
}

func (s *ModerationService) UnmuteUser(ctx context.Context, chatID, actorID, targetID int64) error {
	ctx, span := s.tracer.Start(ctx, "UnmuteUser")
	defer span.End()

	if err := s.requireRole(ctx, chatID, actorID, roles.ActionUnmute); err != nil {
		return err
	}
	if err := s.client.UnrestrictMember(ctx, chatID, targetID); err != nil {
		s.bestEffort("unrestrict_member", err, "chat_id", chatID, "user_id", targetID)
		return fmt.Errorf("unrestrict member: %w", err)
	}
	s.audit(ctx, chatID, fmt.Sprintf("🔊 Снят мут\nПользователь: id %d\nОт: id %d", targetID, actorID),
		"chat_id", chatID, "target_id", targetID, "actor_id", actorID)
	return nil
}

func (s *ModerationService) BanUser(ctx context.Context, chatID, actorID, targetID int64) error {
	ctx, span := s.tracer.Start(ctx, "BanUser")
	defer span.End()

	if err := s.requireTarget(ctx, chatID, actorID, targetID, roles.ActionBan); err != nil {
		return err
	}
	if err := s.client.BanMember(ctx, chatID, targetID, time.Time{}); err != nil {
		s.bestEffort("ban_member", err, "chat_id", chatID, "user_id", targetID)
		return fmt.Errorf("ban member: %w", err)
	}
	s.audit(ctx, chatID, fmt.Sprintf("🚫 Бан\nПользователь: id %d\nОт: id %d", targetID, actorID),
		"chat_id", chatID, "target_id", targetID, "actor_id", actorID)
	return nil
}

func (s *ModerationService) UnbanUser(ctx context.Context, chatID, actorID, targetID int64) error {
	ctx, span := s.tracer.Start(ctx, "UnbanUser")
	defer span.End()

	if err := s.requireRole(ctx, chatID, actorID, roles.ActionUnban); err != nil {
		return err
	}
	if err := s.client.UnbanMember(ctx, chatID, targetID); err != nil {
		s.bestEffort("unban_member", err, "chat_id", chatID, "user_id", targetID)
		return fmt.Errorf("unban member: %w", err)
	}
	s.audit(ctx, chatID, fmt.Sprintf("♻️ Разбан\nПользователь: id %d\nОт: id %d", targetID, actorID),
		"chat_id", chatID, "target_id", targetID, "actor_id", actorID)
	return nil
}

// KickUser removes a user without a lasting ban: ban then immediately
// unban, which on Telegram lets them rejoin by link.
func (s *ModerationService) KickUser(ctx context.Context, chatID, actorID, targetID int64) error {
	ctx, span := s.tracer.Start(ctx, "KickUser")
	defer span.End()

	if err := s.requireTarget(ctx, chatID, actorID, targetID, roles.ActionKick); err != nil {
		return err
	}
	if err := s.client.BanMember(ctx, chatID, targetID, time.Time{}); err != nil {
		s.bestEffort("ban_member", err, "chat_id", chatID, "user_id", targetID)
		return fmt.Errorf("kick: ban member: %w", err)
	}
	if err := s.client.UnbanMember(ctx, chatID, targetID); err != nil {
		s.bestEffort("unban_member", err, "chat_id", chatID, "user_id", targetID)
	}
	s.audit(ctx, chatID, fmt.Sprintf("👞 Кик\nПользователь: id %d\nОт: id %d", targetID, actorID),
		"chat_id", chatID, "target_id", targetID, "actor_id", actorID)
	return nil
}

func (s *ModerationService) WhitelistAdd(ctx context.Context, chatID, actorID, targetID int64) error {
	if err := s.requireRole(ctx, chatID, actorID, roles.ActionWhitelist); err != nil {
		return err
	}
	s.store.WhitelistAdd(chatID, targetID)
	s.logger.Info("whitelist add", "chat_id", chatID, "actor_id", actorID, "target_id", targetID)
	return nil
}

func (s *ModerationService) WhitelistRemove(ctx context.Context, chatID, actorID, targetID int64) error {
	if err := s.requireRole(ctx, chatID, actorID, roles.ActionWhitelist); err != nil {
		return err
	}
	s.store.WhitelistRemove(chatID, targetID)
	s.logger.Info("whitelist remove", "chat_id", chatID, "actor_id", actorID, "target_id", targetID)
	return nil
}

func (s *ModerationService) WhitelistList(ctx context.Context, chatID, actorID int64) ([]int64, error) {
	if err := s.requireRole(ctx, chatID, actorID, roles.ActionWhitelist); err != nil {
		return nil, err
	}
	return s.store.WhitelistList(chatID), nil
}

func (s *ModerationService) SetRules(ctx context.Context, chatID, actorID int64, text string) error {
	if err := s.requireRole(ctx, chatID, actorID, roles.ActionSetRules); err != nil {
		return err
	}
	s.store.SetRules(chatID, text)
	s.logger.Info("rules updated", "chat_id", chatID, "actor_id", actorID)
	return nil
}

func (s *ModerationService) SetLogChannel(ctx context.Context, chatID, actorID, logChatID int64, logTopicID int) error {
	if err := s.requireRole(ctx, chatID, actorID, roles.ActionSetForum); err != nil {
		return err
	}
	s.store.SetLogChannel(chatID, logChatID, logTopicID)
	s.logger.Info("log channel set", "chat_id", chatID, "log_chat_id", logChatID, "log_topic_id", logTopicID)
	return nil
}

// CreateInvite issues a one-member invite link to the main group. It is
// only usable from the test group, where recruiters hold the seeker role.
func (s *ModerationService) CreateInvite(ctx context.Context, fromChatID, actorID int64) (string, error) {
	ctx, span := s.tracer.Start(ctx, "CreateInvite")
	defer span.End()

	if s.opts.TestChatID == 0 || s.opts.MainChatID == 0 {
		return "", ErrNotConfigured
	}
	if fromChatID != s.opts.TestChatID {
		return "", ErrWrongChat
	}
	if err := s.requireRole(ctx, fromChatID, actorID, roles.ActionInvite); err != nil {
		return "", err
	}

	name := fmt.Sprintf("invite-%d-%s", actorID, uuid.NewString()[:8])
	link, err := s.client.CreateInviteLink(ctx, s.opts.MainChatID, name, 1)
	if err != nil {
		s.bestEffort("create_invite_link", err, "main_chat_id", s.opts.MainChatID, "actor_id", actorID)
		return "", fmt.Errorf("create invite link: %w", err)
	}
	s.audit(ctx, fromChatID, fmt.Sprintf("🔗 Выдана ссылка в основную\nОт: id %d", actorID),
		"actor_id", actorID)
	return link, nil
}

// MoveToMain copies a message from the test group into the main group
// and removes the original.
func (s *ModerationService) MoveToMain(ctx context.Context, fromChatID, actorID int64, messageID int) error {
	ctx, span := s.tracer.Start(ctx, "MoveToMain")
	defer span.End()

	if s.opts.TestChatID == 0 || s.opts.MainChatID == 0 {
		return ErrNotConfigured
	}
	if fromChatID != s.opts.TestChatID {
		return ErrWrongChat
	}
	if err := s.requireRole(ctx, fromChatID, actorID, roles.ActionToMain); err != nil {
		return err
	}
	if err := s.client.CopyMessage(ctx, s.opts.MainChatID, fromChatID, messageID); err != nil {
		s.bestEffort("copy_message", err, "from_chat_id", fromChatID, "message_id", messageID)
		return fmt.Errorf("copy message: %w", err)
	}
	if err := s.client.DeleteMessage(ctx, fromChatID, messageID); err != nil {
		s.bestEffort("delete_message", err, "chat_id", fromChatID, "message_id", messageID)
	}
	return nil
}

func (s *ModerationService) InactiveCount(ctx context.Context, chatID, actorID int64) (int, error) {
	if err := s.requireRole(ctx, chatID, actorID, roles.ActionInactive); err != nil {
		return 0, err
	}
	settings := s.store.GetSettings(chatID)
	cutoff := time.Now().AddDate(0, 0, -settings.CleanupDays).Unix()
	return s.store.CountInactive(chatID, cutoff), nil
}

func (s *ModerationService) InactiveList(ctx context.Context, chatID, actorID int64, limit, offset int) ([]store.InactiveUser, error) {
	if err := s.requireRole(ctx, chatID, actorID, roles.ActionInactive); err != nil {
		return nil, err
	}
	settings := s.store.GetSettings(chatID)
	cutoff := time.Now().AddDate(0, 0, -settings.CleanupDays).Unix()
	return s.store.FetchInactive(chatID, cutoff, limit, offset), nil
}
