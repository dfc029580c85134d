package auth

import (
	"context"
	"time"

	"telegram-guard-bot/internal/transport"
)

type mockClient struct {
	memberships map[int64]*transport.Membership
	err         error
}

func (m *mockClient) GetMembership(_ context.Context, _ int64, userID int64) (*transport.Membership, error) {
	if m.err != nil {
		return nil, m.err
	}
	if member, ok := m.memberships[userID]; ok {
		return member, nil
	}
	return &transport.Membership{Status: transport.StatusMember}, nil
}

func (m *mockClient) DeleteMessage(context.Context, int64, int) error { return nil }
func (m *mockClient) RestrictMember(context.Context, int64, int64, time.Time) error {
	return nil
}
func (m *mockClient) UnrestrictMember(context.Context, int64, int64) error { return nil }
func (m *mockClient) BanMember(context.Context, int64, int64, time.Time) error {
	return nil
}
func (m *mockClient) UnbanMember(context.Context, int64, int64) error     { return nil }
func (m *mockClient) SendMessage(context.Context, int64, int, string) error { return nil }
func (m *mockClient) CreateInviteLink(context.Context, int64, string, int) (string, error) {
	return "", nil
}
func (m *mockClient) CopyMessage(context.Context, int64, int64, int) error { return nil }
