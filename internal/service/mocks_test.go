package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"telegram-guard-bot/internal/auth"
	"telegram-guard-bot/internal/store"
	"telegram-guard-bot/internal/transport"
)

// mockClient records every platform call so tests can assert on
// enforcement side effects.
type mockClient struct {
	mu          sync.Mutex
	memberships map[int64]*transport.Membership

	deleted    []int
	restricted []int64
	unmuted    []int64
	banned     []int64
	unbanned   []int64
	sent       []string
	copied     []int
	inviteLink string

	restrictErr error
	banErr      error
	deleteErr   error
}

func (m *mockClient) GetMembership(_ context.Context, _ int64, userID int64) (*transport.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if member, ok := m.memberships[userID]; ok {
		return member, nil
	}
	return &transport.Membership{Status: transport.StatusMember}, nil
}

func (m *mockClient) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *mockClient) RestrictMember(_ context.Context, _ int64, userID int64, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.restrictErr != nil {
		return m.restrictErr
	}
	m.restricted = append(m.restricted, userID)
	return nil
}

func (m *mockClient) UnrestrictMember(_ context.Context, _ int64, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unmuted = append(m.unmuted, userID)
	return nil
}

func (m *mockClient) BanMember(_ context.Context, _ int64, userID int64, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.banErr != nil {
		return m.banErr
	}
	m.banned = append(m.banned, userID)
	return nil
}

func (m *mockClient) UnbanMember(_ context.Context, _ int64, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unbanned = append(m.unbanned, userID)
	return nil
}

func (m *mockClient) SendMessage(_ context.Context, _ int64, _ int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, text)
	return nil
}

func (m *mockClient) CreateInviteLink(_ context.Context, chatID int64, _ string, _ int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inviteLink == "" {
		return fmt.Sprintf("https://t.me/+mock%d", chatID), nil
	}
	return m.inviteLink, nil
}

func (m *mockClient) CopyMessage(_ context.Context, _ int64, _ int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.copied = append(m.copied, messageID)
	return nil
}

func (m *mockClient) bannedIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.banned...)
}

func (m *mockClient) enforcementCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deleted) + len(m.restricted) + len(m.unmuted) +
		len(m.banned) + len(m.unbanned) + len(m.copied)
}

type testEnv struct {
	svc    Service
	store  *store.Store
	client *mockClient
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(logger, filepath.Join(t.TempDir(), "data.json"))
	client := &mockClient{memberships: make(map[int64]*transport.Membership)}
	authorizer := auth.NewAuthorizer(logger, client, st)
	svc := NewModerationService(logger, st, client, authorizer, opts)
	return &testEnv{svc: svc, store: st, client: client}
}
