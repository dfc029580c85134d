package pipeline

import (
	"fmt"
)

type Payload struct {
	ChatID      int64
	SenderID    int64
	MessageID   int
	Username    string
	Text        string
	Caption     string
	AlbumID     string
	IsSticker   bool
	IsAnimation bool
}

func (p Payload) SenderKey() string {
	return fmt.Sprintf("%d:%d", p.ChatID, p.SenderID)
}
