// Package telegram adapts the Bot API to the transport.Client interface.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"telegram-guard-bot/internal/transport"

	tb "gopkg.in/telebot.v3"
)

type Client struct {
	bot *tb.Bot
}

func NewClient(bot *tb.Bot) *Client {
	return &Client{bot: bot}
}

func (c *Client) GetMembership(_ context.Context, chatID, userID int64) (*transport.Membership, error) {
	member, err := c.bot.ChatMemberOf(&tb.Chat{ID: chatID}, &tb.User{ID: userID})
	if err != nil {
		return nil, fmt.Errorf("chat member of: %w", err)
	}

	m := &transport.Membership{Status: transport.MemberStatus(member.Role)}
	if member.User != nil {
		m.Username = member.User.Username
		m.DisplayName = displayName(member.User)
	}
	return m, nil
}

func (c *Client) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	msg := tb.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	if err := c.bot.Delete(msg); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (c *Client) RestrictMember(_ context.Context, chatID, userID int64, until time.Time) error {
	member := &tb.ChatMember{
		User:            &tb.User{ID: userID},
		RestrictedUntil: until.Unix(),
		Rights:          tb.Rights{CanSendMessages: false},
	}
	if err := c.bot.Restrict(&tb.Chat{ID: chatID}, member); err != nil {
		return fmt.Errorf("restrict member: %w", err)
	}
	return nil
}

func (c *Client) UnrestrictMember(_ context.Context, chatID, userID int64) error {
	member := &tb.ChatMember{
		User:   &tb.User{ID: userID},
		Rights: tb.NoRestrictions(),
	}
	if err := c.bot.Restrict(&tb.Chat{ID: chatID}, member); err != nil {
		return fmt.Errorf("unrestrict member: %w", err)
	}
	return nil
}

func (c *Client) BanMember(_ context.Context, chatID, userID int64, until time.Time) error {
	member := &tb.ChatMember{User: &tb.User{ID: userID}}
	if !until.IsZero() {
		member.RestrictedUntil = until.Unix()
	}
	if err := c.bot.Ban(&tb.Chat{ID: chatID}, member); err != nil {
		return fmt.Errorf("ban member: %w", err)
	}
	return nil
}

func (c *Client) UnbanMember(_ context.Context, chatID, userID int64) error {
	if err := c.bot.Unban(&tb.Chat{ID: chatID}, &tb.User{ID: userID}, true); err != nil {
		return fmt.Errorf("unban member: %w", err)
	}
	return nil
}

func (c *Client) SendMessage(_ context.Context, chatID int64, topicID int, text string) error {
	opts := &tb.SendOptions{DisableWebPagePreview: true}
	if topicID > 0 {
		opts.ThreadID = topicID
	}
	if _, err := c.bot.Send(&tb.Chat{ID: chatID}, text, opts); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (c *Client) CreateInviteLink(_ context.Context, chatID int64, name string, memberLimit int) (string, error) {
	link, err := c.bot.CreateInviteLink(&tb.Chat{ID: chatID}, &tb.ChatInviteLink{
		Name:        name,
		MemberLimit: memberLimit,
	})
	if err != nil {
		return "", fmt.Errorf("create invite link: %w", err)
	}
	return link.InviteLink, nil
}

func (c *Client) CopyMessage(_ context.Context, toChatID, fromChatID int64, messageID int) error {
	msg := tb.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: fromChatID}
	if _, err := c.bot.Copy(&tb.Chat{ID: toChatID}, msg); err != nil {
		return fmt.Errorf("copy message: %w", err)
	}
	return nil
}

func displayName(u *tb.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
