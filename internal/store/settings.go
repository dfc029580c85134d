package store

// GetSettings returns a copy of the chat's settings, falling back to defaults
// when the chat has none stored. It never fails.
func (s *Store) GetSettings(chatID int64) *ChatSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.data.Settings[chatKey(chatID)]
	if !ok {
		return DefaultSettings()
	}
	cp := *stored
	return &cp
}

// UpdateSettings applies fn to the chat's settings under the single-writer
// lock and persists the result. The record is created from defaults on first
// access. Concurrent updates of different fields cannot clobber each other
// because each call re-reads the stored record before mutating it.
func (s *Store) UpdateSettings(chatID int64, fn func(*ChatSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ck := chatKey(chatID)
	stored, ok := s.data.Settings[ck]
	if !ok {
		stored = DefaultSettings()
		s.data.Settings[ck] = stored
	}
	fn(stored)
	s.persistLocked()
}

// ChatIDs lists every chat with a stored settings record.
func (s *Store) ChatIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]int64, 0, len(s.data.Settings))
	for ck := range s.data.Settings {
		if id, ok := parseKey(ck); ok {
			out = append(out, id)
		}
	}
	return out
}
