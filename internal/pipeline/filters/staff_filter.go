package filters

import (
	"context"
	"log/slog"

	"telegram-guard-bot/internal/pipeline"
	"telegram-guard-bot/internal/roles"
	"telegram-guard-bot/internal/store"
	"telegram-guard-bot/internal/transport"
)

// StaffFilter exempts the chat owner, platform administrators and users
// holding a stored role of moderator or higher from moderation.
type StaffFilter struct {
	logger *slog.Logger
	client transport.Client
	store  *store.Store
}

func NewStaffFilter(logger *slog.Logger, client transport.Client, st *store.Store) *StaffFilter {
	return &StaffFilter{
		logger: logger.With("filter", "staff"),
		client: client,
		store:  st,
	}
}

func (f *StaffFilter) Name() string {
	return "staff_filter"
}

func (f *StaffFilter) Process(ctx context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	member, err := f.client.GetMembership(ctx, payload.ChatID, payload.SenderID)
	if err != nil {
		// Fall through to the stored role; an API hiccup must not
		// turn admins into moderation targets for long.
		f.logger.Warn("membership lookup failed",
			"chat_id", payload.ChatID, "user_id", payload.SenderID, "error", err)
	} else if member.IsPrivileged() {
		return &pipeline.Result{IsAllowed: true, Halt: true, FilterName: f.Name()}, nil
	}

	if role, ok := f.store.GetRole(payload.ChatID, payload.SenderID); ok && roles.AtLeast(role, roles.Mod) {
		return &pipeline.Result{IsAllowed: true, Halt: true, FilterName: f.Name()}, nil
	}
	return &pipeline.Result{IsAllowed: true}, nil
}
