// Package cache provides a mutex-guarded in-memory TTL store.
//
// The store carries a default TTL; an entry may be stored with its own
// shorter or longer TTL instead. A Set after a miss overwrites the
// whole entry, never parts of it.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a concurrency-safe key-value store with per-entry expiry.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration

	now func() time.Time // overridden in tests
}

// NewStore creates a Store whose entries expire after ttl by default.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the value for key if it is present and fresh.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the store's default TTL, replacing
// any previous entry.
func (s *Store) Set(key string, value any) {
	s.SetTTL(key, value, s.ttl)
}

// SetTTL stores value under key with an explicit TTL, replacing any
// previous entry.
func (s *Store) SetTTL(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
}

// Purge removes every stale entry and returns the number removed.
func (s *Store) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries held, fresh or stale.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RunSweeper purges on the given interval until ctx is canceled,
// logging the count removed on each pass.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.Purge()
			logger.Info("cache sweep", "removed", removed, "held", s.Len())
		}
	}
}
