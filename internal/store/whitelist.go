package store

import "sort"

// IsWhitelisted reports whether the user is exempt from automoderation in the
// chat. Membership is binary, with no expiry.
func (s *Store) IsWhitelisted(chatID, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.data.Whitelist[chatKey(chatID)] {
		if id == userID {
			return true
		}
	}
	return false
}

func (s *Store) WhitelistAdd(chatID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ck := chatKey(chatID)
	for _, id := range s.data.Whitelist[ck] {
		if id == userID {
			return
		}
	}
	s.data.Whitelist[ck] = append(s.data.Whitelist[ck], userID)
	sort.Slice(s.data.Whitelist[ck], func(i, j int) bool {
		return s.data.Whitelist[ck][i] < s.data.Whitelist[ck][j]
	})
	s.persistLocked()
}

func (s *Store) WhitelistRemove(chatID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ck := chatKey(chatID)
	wl := s.data.Whitelist[ck]
	for i, id := range wl {
		if id == userID {
			s.data.Whitelist[ck] = append(wl[:i], wl[i+1:]...)
			break
		}
	}
	s.persistLocked()
}

func (s *Store) WhitelistList(chatID int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	wl := s.data.Whitelist[chatKey(chatID)]
	out := make([]int64, len(wl))
	copy(out, wl)
	return out
}
