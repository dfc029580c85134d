package service

import (
	"context"
	"fmt"
	"time"

	"telegram-guard-bot/internal/metrics"
	"telegram-guard-bot/internal/store"
)

const (
	cleanupInterval = 24 * time.Hour
	pruneInterval   = 24 * time.Hour

	activityKeepDays   = 180
	activityMaxPerChat = 20000
)

// StartCleanupTask runs the inactivity sweep over every known chat: one
// pass right away, then once a day. Individual chat failures are logged
// and do not stop the loop.
func (s *ModerationService) StartCleanupTask(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)

	sweep := func() {
		for _, chatID := range s.store.ChatIDs() {
			processed, removed, err := s.RunCleanup(ctx, chatID)
			if err != nil {
				s.logger.Error("inactivity sweep failed", "chat_id", chatID, "error", err)
				continue
			}
			if processed > 0 {
				s.logger.Info("inactivity sweep done",
					"chat_id", chatID, "processed", processed, "removed", removed)
			}
		}
	}

	go func() {
		defer ticker.Stop()
		sweep()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}

// RunCleanup removes users inactive beyond the chat's cleanup window.
// The chat owner, platform administrators and users already gone are
// skipped; one user failing never aborts the rest.
func (s *ModerationService) RunCleanup(ctx context.Context, chatID int64) (processed, removed int, err error) {
	ctx, span := s.tracer.Start(ctx, "RunCleanup")
	defer span.End()

	settings := s.store.GetSettings(chatID)
	if !settings.CleanupEnabled {
		return 0, 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -settings.CleanupDays).Unix()
	stale := s.store.FetchInactive(chatID, cutoff, 0, 0)

	for _, u := range stale {
		processed++

		member, err := s.client.GetMembership(ctx, chatID, u.UserID)
		if err != nil {
			s.bestEffort("get_membership", err, "chat_id", chatID, "user_id", u.UserID)
			continue
		}
		if member.IsPrivileged() || member.IsAbsent() {
			continue
		}

		if err := s.client.BanMember(ctx, chatID, u.UserID, time.Time{}); err != nil {
			s.bestEffort("ban_member", err, "chat_id", chatID, "user_id", u.UserID)
			continue
		}
		if settings.CleanupMode == store.CleanupKick {
			if err := s.client.UnbanMember(ctx, chatID, u.UserID); err != nil {
				s.bestEffort("unban_member", err, "chat_id", chatID, "user_id", u.UserID)
			}
		}
		removed++
		metrics.IncCleanupRemoval(settings.CleanupMode)
	}

	if removed > 0 {
		s.audit(ctx, chatID, fmt.Sprintf(
			"🧹 Чистка неактивных: удалено %d из %d (порог %d дн., режим %s)",
			removed, processed, settings.CleanupDays, settings.CleanupMode),
			"chat_id", chatID, "removed", removed, "processed", processed)
	}
	return processed, removed, nil
}

// StartPruneTask trims the activity index daily so the snapshot does not
// grow without bound.
func (s *ModerationService) StartPruneTask(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)

	prune := func() {
		cutoff := time.Now().AddDate(0, 0, -activityKeepDays).Unix()
		if n := s.store.PruneActivity(cutoff, activityMaxPerChat); n > 0 {
			s.logger.Info("activity index pruned", "removed", n)
		}
	}

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				prune()
			}
		}
	}()
}
