// Package session provides issuance, validation, revocation, and periodic
// sweeping of authenticated sessions.
//
// Sessions are immutable once issued: logout removes rather than edits,
// and expiry is fixed at creation time plus the validity window. An
// expired entry is logically absent as soon as its deadline passes; only
// the sweep physically removes it.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mjenner/gatehouse/internal/user"
)

var (
	// ErrInvalidSession is returned when a token is unknown or expired.
	ErrInvalidSession = errors.New("invalid or expired session")
	// ErrNoSession is returned when revoking a token that is not live.
	ErrNoSession = errors.New("no such session")
)

// Session is a time-bounded proof of authentication tied to a random token.
type Session struct {
	Token     string
	Identity  string
	Role      user.Role
	ExpiresAt time.Time
}

// Store holds all live sessions behind one mutex, so every
// check-then-act sequence (issue, validate, revoke, sweep) is atomic
// with respect to concurrent callers.
type Store struct {
	mu       sync.Mutex
	sessions map[string]Session
	validity time.Duration

	now func() time.Time // overridden in tests
}

// NewStore creates a Store whose sessions expire after the given
// validity window.
func NewStore(validity time.Duration) *Store {
	return &Store{
		sessions: make(map[string]Session),
		validity: validity,
		now:      time.Now,
	}
}

// Issue creates a session for the given identity and returns it.
// Tokens are crypto-random UUIDs; a collision with a live session is a
// fatal-bug condition, not a user-facing error, so it panics.
func (s *Store) Issue(identity string, role user.Role) Session {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, clash := s.sessions[token]; clash {
		panic("session: token collision for " + token)
	}

	sess := Session{
		Token:     token,
		Identity:  identity,
		Role:      role,
		ExpiresAt: s.now().Add(s.validity),
	}
	s.sessions[token] = sess
	return sess
}

// Validate looks up a token. Unknown and expired tokens both report
// ErrInvalidSession; an expired entry stays in the map for the sweep.
func (s *Store) Validate(token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || !s.now().Before(sess.ExpiresAt) {
		return Session{}, ErrInvalidSession
	}
	return sess, nil
}

// Revoke removes a session unconditionally if present.
func (s *Store) Revoke(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return ErrNoSession
	}
	delete(s.sessions, token)
	return nil
}

// Sweep removes every session whose expiry has passed and returns the
// number removed. The enumerate-and-remove pass holds the store lock,
// so it cannot race with Issue, Validate, or Revoke.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, sess := range s.sessions {
		if !sess.ExpiresAt.After(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently in the store, including
// expired ones the sweep has not yet removed.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunSweeper sweeps on the given interval until ctx is canceled,
// logging the count removed on each pass.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.Sweep()
			logger.Info("session sweep", "removed", removed, "live", s.Len())
		}
	}
}
