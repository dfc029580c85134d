package store

import "strconv"

// Snapshot is the single on-disk document. Five independent namespaces keyed
// by decimal chat id, then by user id where applicable. It is loaded wholesale
// at startup and rewritten wholesale on every flush.
type Snapshot struct {
	Settings  map[string]*ChatSettings              `json:"settings"`
	Meta      map[string]*ChatMeta                  `json:"meta"`
	Roles     map[string]map[string]string          `json:"roles"`
	Warns     map[string]map[string]*WarnRecord     `json:"warns"`
	Activity  map[string]map[string]*ActivityRecord `json:"activity"`
	Whitelist map[string][]int64                    `json:"whitelist"`
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		Settings:  make(map[string]*ChatSettings),
		Meta:      make(map[string]*ChatMeta),
		Roles:     make(map[string]map[string]string),
		Warns:     make(map[string]map[string]*WarnRecord),
		Activity:  make(map[string]map[string]*ActivityRecord),
		Whitelist: make(map[string][]int64),
	}
}

// normalize backfills namespaces missing from an older or partial document.
func (s *Snapshot) normalize() {
	if s.Settings == nil {
		s.Settings = make(map[string]*ChatSettings)
	}
	if s.Meta == nil {
		s.Meta = make(map[string]*ChatMeta)
	}
	if s.Roles == nil {
		s.Roles = make(map[string]map[string]string)
	}
	if s.Warns == nil {
		s.Warns = make(map[string]map[string]*WarnRecord)
	}
	if s.Activity == nil {
		s.Activity = make(map[string]map[string]*ActivityRecord)
	}
	if s.Whitelist == nil {
		s.Whitelist = make(map[string][]int64)
	}
}

// ChatSettings is the per-chat automoderation configuration.
type ChatSettings struct {
	Enabled     bool `json:"enabled"`
	FloodLimit  int  `json:"flood_limit"`
	FloodWindow int  `json:"flood_window_sec"`
	RepeatLimit int  `json:"repeat_limit"`
	BlockLinks  bool `json:"block_links"`

	StickerMode  string `json:"sticker_mode"` // allow|limit|ban
	GifMode      string `json:"gif_mode"`     // allow|limit|ban
	StickerLimit int    `json:"sticker_limit"`
	GifLimit     int    `json:"gif_limit"`
	MediaWindow  int    `json:"media_window_sec"`

	Action      string `json:"action"` // delete|mute
	MuteSeconds int    `json:"mute_seconds"`

	CleanupEnabled bool   `json:"cleanup_enabled"`
	CleanupDays    int    `json:"cleanup_days"`
	CleanupMode    string `json:"cleanup_mode"` // kick|ban
}

const (
	ModeAllow = "allow"
	ModeLimit = "limit"
	ModeBan   = "ban"

	ActionDelete = "delete"
	ActionMute   = "mute"

	CleanupKick = "kick"
	CleanupBan  = "ban"
)

func DefaultSettings() *ChatSettings {
	return &ChatSettings{
		Enabled:     true,
		FloodLimit:  6,
		FloodWindow: 10,
		RepeatLimit: 3,
		BlockLinks:  true,

		StickerMode:  ModeLimit,
		GifMode:      ModeLimit,
		StickerLimit: 4,
		GifLimit:     3,
		MediaWindow:  12,

		Action:      ActionMute,
		MuteSeconds: 14400,

		CleanupEnabled: false,
		CleanupDays:    14,
		CleanupMode:    CleanupKick,
	}
}

// ChatMeta holds the per-chat audit destination and the rules text.
type ChatMeta struct {
	LogChatID  int64  `json:"forum_chat_id,omitempty"`
	LogTopicID int    `json:"forum_topic_id,omitempty"`
	RulesText  string `json:"rules_text,omitempty"`
}

type WarnRecord struct {
	Count      int    `json:"count"`
	LastTS     int64  `json:"last_ts"`
	LastReason string `json:"last_reason"`
	LastBy     int64  `json:"last_by"`
}

type ActivityRecord struct {
	LastTS   int64  `json:"last_ts"`
	Username string `json:"username,omitempty"`
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func parseKey(k string) (int64, bool) {
	id, err := strconv.ParseInt(k, 10, 64)
	return id, err == nil
}
