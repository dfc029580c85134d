// Package transport defines the narrow platform client consumed by the core.
// Every operation may fail with a permission or rate error; callers must
// treat such failures as non-fatal.
package transport

import (
	"context"
	"time"
)

type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

// Membership is the platform-reported view of a user in a chat.
type Membership struct {
	Status      MemberStatus
	Username    string
	DisplayName string
}

func (m *Membership) IsOwner() bool {
	return m.Status == StatusCreator
}

func (m *Membership) IsPrivileged() bool {
	return m.Status == StatusCreator || m.Status == StatusAdministrator
}

func (m *Membership) IsAbsent() bool {
	return m.Status == StatusLeft || m.Status == StatusKicked
}

type Client interface {
	GetMembership(ctx context.Context, chatID, userID int64) (*Membership, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	// RestrictMember removes the posting ability until the given time.
	RestrictMember(ctx context.Context, chatID, userID int64, until time.Time) error
	// UnrestrictMember restores full member permissions.
	UnrestrictMember(ctx context.Context, chatID, userID int64) error
	// BanMember bans until the given time; the zero time bans forever.
	BanMember(ctx context.Context, chatID, userID int64, until time.Time) error
	UnbanMember(ctx context.Context, chatID, userID int64) error
	// SendMessage posts text to a chat; topicID > 0 targets a forum topic.
	SendMessage(ctx context.Context, chatID int64, topicID int, text string) error
	CreateInviteLink(ctx context.Context, chatID int64, name string, memberLimit int) (string, error)
	CopyMessage(ctx context.Context, toChatID, fromChatID int64, messageID int) error
}
