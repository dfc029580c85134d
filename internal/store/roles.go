package store

import (
	"sort"

	"telegram-guard-bot/internal/roles"
)

// RoleAssignment pairs a user with their stored rank.
type RoleAssignment struct {
	UserID int64
	Role   roles.Role
}

// GetRole returns the stored role for the user, if any. Stored roles are
// advisory; callers needing the effective role must combine this with the
// platform-reported membership.
func (s *Store) GetRole(chatID, userID int64) (roles.Role, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chatRoles, ok := s.data.Roles[chatKey(chatID)]
	if !ok {
		return roles.None, false
	}
	raw, ok := chatRoles[userKey(userID)]
	if !ok {
		return roles.None, false
	}
	r, ok := roles.Parse(raw)
	if !ok {
		return roles.None, false
	}
	return r, true
}

func (s *Store) SetRole(chatID, userID int64, role roles.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ck := chatKey(chatID)
	if s.data.Roles[ck] == nil {
		s.data.Roles[ck] = make(map[string]string)
	}
	s.data.Roles[ck][userKey(userID)] = string(role)
	s.persistLocked()
}

func (s *Store) DelRole(chatID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chatRoles, ok := s.data.Roles[chatKey(chatID)]; ok {
		delete(chatRoles, userKey(userID))
	}
	s.persistLocked()
}

// ListRoles returns all assignments for a chat, highest rank first.
func (s *Store) ListRoles(chatID int64) []RoleAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()

	chatRoles, ok := s.data.Roles[chatKey(chatID)]
	if !ok {
		return nil
	}

	out := make([]RoleAssignment, 0, len(chatRoles))
	for uk, raw := range chatRoles {
		uid, okID := parseKey(uk)
		r, okRole := roles.Parse(raw)
		if !okID || !okRole {
			continue
		}
		out = append(out, RoleAssignment{UserID: uid, Role: r})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role.Rank() != out[j].Role.Rank() {
			return out[i].Role.Rank() > out[j].Role.Rank()
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
