package store

import "time"

// AddWarn increments the user's warning counter unconditionally and persists.
// Counters are never decremented or deleted. Returns the new total.
func (s *Store) AddWarn(chatID, userID, byID int64, reason string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ck := chatKey(chatID)
	if s.data.Warns[ck] == nil {
		s.data.Warns[ck] = make(map[string]*WarnRecord)
	}

	uk := userKey(userID)
	rec, ok := s.data.Warns[ck][uk]
	if !ok {
		rec = &WarnRecord{}
		s.data.Warns[ck][uk] = rec
	}
	rec.Count++
	rec.LastTS = time.Now().Unix()
	rec.LastReason = reason
	rec.LastBy = byID

	s.persistLocked()
	return rec.Count
}

// GetWarns returns the user's current warning total.
func (s *Store) GetWarns(chatID, userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	chatWarns, ok := s.data.Warns[chatKey(chatID)]
	if !ok {
		return 0
	}
	rec, ok := chatWarns[userKey(userID)]
	if !ok {
		return 0
	}
	return rec.Count
}
