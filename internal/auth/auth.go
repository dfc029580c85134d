// Package auth resolves effective roles and decides whether one user
// may apply moderation to another. Platform-side ownership always
// overrides stored roles; platform administrators without a stored role
// are untouchable but hold no command rank.
package auth

import (
	"context"
	"log/slog"

	"telegram-guard-bot/internal/roles"
	"telegram-guard-bot/internal/store"
	"telegram-guard-bot/internal/transport"
)

type Authorizer struct {
	logger *slog.Logger
	client transport.Client
	store  *store.Store
}

func NewAuthorizer(logger *slog.Logger, client transport.Client, st *store.Store) *Authorizer {
	return &Authorizer{
		logger: logger.With("component", "auth"),
		client: client,
		store:  st,
	}
}

// EffectiveRole returns the role a user acts with right now. The chat
// owner is always a creator regardless of the stored assignment; everyone
// else gets their stored role, or none.
func (a *Authorizer) EffectiveRole(ctx context.Context, chatID, userID int64) roles.Role {
	member, err := a.client.GetMembership(ctx, chatID, userID)
	if err != nil {
		a.logger.Warn("membership lookup failed, falling back to stored role",
			"chat_id", chatID, "user_id", userID, "error", err)
	} else if member.IsOwner() {
		return roles.Creator
	}

	if role, ok := a.store.GetRole(chatID, userID); ok {
		return role
	}
	return roles.None
}

// CanUse reports whether the user may invoke the given action in the chat.
func (a *Authorizer) CanUse(ctx context.Context, chatID, userID int64, action string) bool {
	return roles.CanUse(a.EffectiveRole(ctx, chatID, userID), action)
}

// CanModerateTarget reports whether actor may warn, mute, ban or
// otherwise act on target in the chat. The chat owner and platform
// administrators cannot be targeted, and a holder of a role can only be
// targeted by someone of strictly higher rank.
func (a *Authorizer) CanModerateTarget(ctx context.Context, chatID, actorID, targetID int64) bool {
	if actorID == targetID {
		return false
	}

	member, err := a.client.GetMembership(ctx, chatID, targetID)
	if err != nil {
		a.logger.Warn("target membership lookup failed",
			"chat_id", chatID, "target_id", targetID, "error", err)
	} else if member.IsPrivileged() {
		return false
	}

	targetRole, ok := a.store.GetRole(chatID, targetID)
	if !ok {
		return true
	}
	actorRole := a.EffectiveRole(ctx, chatID, actorID)
	return actorRole.Rank() > targetRole.Rank()
}
