// Package user provides the process-wide user store and credential checks.
//
// Users are created at startup (the seed administrator) or through the
// add-user flow, and are immutable once created. Passwords are stored
// only as bcrypt hashes.
package user

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Role restricts which routes a session may reach.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleUser          Role = "user"
)

// ParseRole maps a user-supplied role name to a Role. The empty string
// defaults to RoleUser.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user":
		return RoleUser, nil
	case "administrator", "admin":
		return RoleAdministrator, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

var (
	// ErrUnknownUser is returned when the identity does not exist.
	ErrUnknownUser = errors.New("unknown user")
	// ErrBadCredentials is returned when the password does not match.
	ErrBadCredentials = errors.New("bad credentials")
	// ErrDuplicateUser is returned when the identity is already taken.
	ErrDuplicateUser = errors.New("user already exists")
)

// User is a registered account, keyed by email.
type User struct {
	Email        string
	PasswordHash []byte
	Role         Role
}

// Summary is the externally visible part of a User.
type Summary struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Store holds all registered users for the process lifetime.
type Store struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{users: make(map[string]User)}
}

// Add hashes the password and registers a new user. The check-then-insert
// is atomic with respect to concurrent Add calls.
func (s *Store) Add(email, password string, role Role) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; exists {
		return fmt.Errorf("add user %q: %w", email, ErrDuplicateUser)
	}
	s.users[email] = User{Email: email, PasswordHash: hash, Role: role}
	return nil
}

// Authenticate verifies the password for the given identity. It reports
// ErrUnknownUser and ErrBadCredentials separately; whether that
// distinction should reach the client is the login handler's policy.
func (s *Store) Authenticate(email, password string) (User, error) {
	s.mu.RLock()
	u, ok := s.users[email]
	s.mu.RUnlock()

	if !ok {
		return User{}, fmt.Errorf("authenticate %q: %w", email, ErrUnknownUser)
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return User{}, fmt.Errorf("authenticate %q: %w", email, ErrBadCredentials)
	}
	return u, nil
}

// Get returns the user for the given identity.
func (s *Store) Get(email string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	return u, ok
}

// Count returns the number of registered users.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// All returns summaries of every registered user, sorted by email.
func (s *Store) All() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, Summary{Email: u.Email, Role: u.Role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}
