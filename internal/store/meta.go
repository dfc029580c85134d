package store

// GetMeta returns the chat's audit-log destination and rules text. Zero
// values mean "not configured".
func (s *Store) GetMeta(chatID int64) (logChatID int64, logTopicID int, rules string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.data.Meta[chatKey(chatID)]
	if !ok {
		return 0, 0, ""
	}
	return m.LogChatID, m.LogTopicID, m.RulesText
}

func (s *Store) SetLogChannel(chatID, logChatID int64, logTopicID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.metaLocked(chatID)
	m.LogChatID = logChatID
	m.LogTopicID = logTopicID
	s.persistLocked()
}

func (s *Store) SetRules(chatID int64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.metaLocked(chatID)
	m.RulesText = text
	s.persistLocked()
}

func (s *Store) metaLocked(chatID int64) *ChatMeta {
	ck := chatKey(chatID)
	m, ok := s.data.Meta[ck]
	if !ok {
		m = &ChatMeta{}
		s.data.Meta[ck] = m
	}
	return m
}
