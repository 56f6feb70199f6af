// Package history records finished loading episodes so the view can show
// how recent refreshes went.
package history

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultLimit is how many entries a store keeps unless configured otherwise.
const DefaultLimit = 50

// Outcomes of a loading episode.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
)

// ErrInvalidEntry is returned when an entry has no episode.
var ErrInvalidEntry = errors.New("history entry requires an episode")

// Entry describes one loading episode.
type Entry struct {
	Session    string        `json:"session"`
	Episode    uint64        `json:"episode"`
	Trigger    string        `json:"trigger"`
	Outcome    string        `json:"outcome"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
	CPUPercent float64       `json:"cpu_percent,omitempty"`
	MemPercent float64       `json:"mem_percent,omitempty"`
}

// Store persists entries, newest first.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Recent(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

// MemoryStore implements Store in memory.
// Safe for concurrent use.
type MemoryStore struct {
	entries []Entry // newest last
	limit   int
	mu      sync.RWMutex
}

// NewMemoryStore creates a store keeping at most limit entries.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{limit: limit}
}

// Append adds an entry, dropping the oldest once the limit is reached.
func (s *MemoryStore) Append(ctx context.Context, e Entry) error {
	if e.Episode == 0 {
		return ErrInvalidEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	if over := len(s.entries) - s.limit; over > 0 {
		s.entries = append(s.entries[:0], s.entries[over:]...)
	}
	return nil
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (s *MemoryStore) Recent(ctx context.Context, n int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Entry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
