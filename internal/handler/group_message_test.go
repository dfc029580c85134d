package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tb "gopkg.in/telebot.v3"
)

func TestBuildPayload(t *testing.T) {
	msg := &tb.Message{
		ID:      77,
		Chat:    &tb.Chat{ID: -100500, Type: tb.ChatSuperGroup},
		Sender:  &tb.User{ID: 42, Username: "spammer"},
		Text:    "hello",
		Caption: "caption",
		AlbumID: "g1",
		Sticker: &tb.Sticker{},
	}

	p := buildPayload(msg)
	assert.Equal(t, int64(-100500), p.ChatID)
	assert.Equal(t, int64(42), p.SenderID)
	assert.Equal(t, 77, p.MessageID)
	assert.Equal(t, "spammer", p.Username)
	assert.Equal(t, "hello", p.Text)
	assert.Equal(t, "caption", p.Caption)
	assert.Equal(t, "g1", p.AlbumID)
	assert.True(t, p.IsSticker)
	assert.False(t, p.IsAnimation)
}

func TestSenderName(t *testing.T) {
	assert.Equal(t, "spammer", senderName(&tb.User{Username: "spammer", FirstName: "Иван"}))
	assert.Equal(t, "Иван Петров", senderName(&tb.User{FirstName: "Иван", LastName: "Петров"}))
	assert.Equal(t, "Иван", senderName(&tb.User{FirstName: "Иван"}))
}

func TestWantsModeration(t *testing.T) {
	group := &tb.Chat{ID: -100500, Type: tb.ChatSuperGroup}

	assert.True(t, wantsModeration(&tb.Message{Chat: group, Sender: &tb.User{ID: 42}}))
	assert.False(t, wantsModeration(&tb.Message{Chat: group, Sender: &tb.User{ID: 43, IsBot: true}}))
	assert.False(t, wantsModeration(&tb.Message{Chat: &tb.Chat{Type: tb.ChatPrivate}, Sender: &tb.User{ID: 42}}))
	assert.False(t, wantsModeration(&tb.Message{Chat: group}))
	assert.False(t, wantsModeration(nil))
}

func TestIsGroup(t *testing.T) {
	assert.True(t, isGroup(&tb.Chat{Type: tb.ChatGroup}))
	assert.True(t, isGroup(&tb.Chat{Type: tb.ChatSuperGroup}))
	assert.False(t, isGroup(&tb.Chat{Type: tb.ChatPrivate}))
	assert.False(t, isGroup(nil))
}
