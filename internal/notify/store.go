package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/store"
)

// Store is the in-memory notification list, newest first, capped at
// model.MaxNotifications. Every mutation rewrites the whole list to
// durable storage; persistence is best-effort and a write failure only
// costs cross-session durability, never correctness.
type Store struct {
	mu      sync.Mutex
	records []model.Notification
	persist store.Store
	log     *zap.Logger
	lastID  int64
}

// NewStore creates a notification store backed by the given persistence
// layer. Call Load before use to pick up records from earlier sessions.
func NewStore(persist store.Store, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		persist: persist,
		log:     log,
	}
}

// Load replaces the in-memory list with the persisted one. Called once
// at session start.
func (s *Store) Load(ctx context.Context) error {
	records, err := s.persist.LoadNotifications(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records
	for _, n := range records {
		if n.ID > s.lastID {
			s.lastID = n.ID
		}
	}
	return nil
}

// Add creates an unread record, inserts it at the front, evicts the
// oldest entries beyond the cap, and persists the list.
func (s *Store) Add(title, message string) model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	// Wall-clock ids are unique enough within a session, but two adds in
	// the same millisecond must still be distinct and increasing.
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	record := model.Notification{
		ID:        id,
		Title:     title,
		Message:   message,
		Read:      false,
		CreatedAt: now,
	}

	s.records = append([]model.Notification{record}, s.records...)
	if len(s.records) > model.MaxNotifications {
		s.records = s.records[:model.MaxNotifications]
	}

	s.persistLocked()
	return record
}

// MarkRead flips the record at index (newest-first order) to read.
// Out-of-range indexes and already-read records are no-ops.
func (s *Store) MarkRead(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.records) {
		return
	}
	if s.records[index].Read {
		return
	}

	s.records[index].Read = true
	s.persistLocked()
}

// MarkAllRead flips every record to read.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.records {
		if !s.records[i].Read {
			s.records[i].Read = true
			changed = true
		}
	}

	if changed {
		s.persistLocked()
	}
}

// Delete removes the record at index, shifting later entries up.
func (s *Store) Delete(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.records) {
		return
	}

	s.records = append(s.records[:index], s.records[index+1:]...)
	s.persistLocked()
}

// ClearAll removes every record.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return
	}

	s.records = nil
	s.persistLocked()
}

// UnreadCount returns the number of unread records, for badge display.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.records {
		if !n.Read {
			count++
		}
	}
	return count
}

// Len returns the total number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Records returns a copy of the list in display order (newest first).
func (s *Store) Records() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Notification, len(s.records))
	copy(out, s.records)
	return out
}

// persistLocked rewrites the full list to durable storage. Failures are
// logged and swallowed. Callers must hold s.mu.
func (s *Store) persistLocked() {
	snapshot := make([]model.Notification, len(s.records))
	copy(snapshot, s.records)

	if err := s.persist.SaveNotifications(context.Background(), snapshot); err != nil {
		s.log.Warn("persisting notifications failed", zap.Error(err))
	}
}
