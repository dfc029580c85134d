// Package store owns the canonical persisted state: per-chat settings, meta,
// roles, warnings, activity and whitelist. All mutation goes through a single
// writer; saves are atomic (temp file + rename) so a reader never observes a
// partially written snapshot.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// debounceDelay coalesces bursts of high-frequency mutations (activity
// updates) into one flush after a short quiescent delay.
const debounceDelay = 5 * time.Second

type Store struct {
	logger *slog.Logger
	path   string

	mu          sync.Mutex
	data        *Snapshot
	saveTimer   *time.Timer
	savePending bool
	dirty       bool // last save failed; retry on next mutation
}

// New opens the snapshot at path. A missing or corrupt file degrades to an
// empty default snapshot, never an error.
func New(logger *slog.Logger, path string) *Store {
	s := &Store{
		logger: logger,
		path:   path,
		data:   newSnapshot(),
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read snapshot, starting empty", "path", s.path, "error", err)
		}
		return
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(raw, snap); err != nil {
		s.logger.Warn("Corrupt snapshot, starting empty", "path", s.path, "error", err)
		return
	}
	snap.normalize()
	s.data = snap
}

// saveLocked writes the whole snapshot to a temporary file and renames it
// over the live one. Callers must hold s.mu.
func (s *Store) saveLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// persistLocked saves immediately. A failure is logged and remembered; the
// save is retried on the next mutation rather than right away.
func (s *Store) persistLocked() {
	if err := s.saveLocked(); err != nil {
		s.logger.Error("Failed to save snapshot", "path", s.path, "error", err)
		s.dirty = true
		return
	}
	s.dirty = false
	s.cancelPendingLocked()
}

// schedulePersistLocked arranges a debounced save. Repeated calls while one
// is pending are coalesced into the single scheduled flush.
func (s *Store) schedulePersistLocked() {
	if s.dirty {
		// A previous save failed; take the retry opportunity now.
		s.persistLocked()
		return
	}
	if s.savePending {
		return
	}
	s.savePending = true
	s.saveTimer = time.AfterFunc(debounceDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.savePending {
			return
		}
		s.savePending = false
		if err := s.saveLocked(); err != nil {
			s.logger.Error("Failed to save snapshot", "path", s.path, "error", err)
			s.dirty = true
		}
	})
}

func (s *Store) cancelPendingLocked() {
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.savePending = false
}

// Flush drains any pending debounced save. Must be called before shutdown so
// a scheduled write is never silently dropped.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.savePending || s.dirty
	s.cancelPendingLocked()
	if !pending {
		return nil
	}
	if err := s.saveLocked(); err != nil {
		s.dirty = true
		return err
	}
	s.dirty = false
	return nil
}
