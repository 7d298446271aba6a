// Package memtoken provides an in-memory TokenStore for development and
// tests. Tokens honor their TTL but survive nothing: a process restart makes
// every session anonymous again.
package memtoken

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// Store is a mutex-guarded in-memory token store.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// New constructs an empty store.
func New() *Store {
	return &Store{entries: make(map[string]entry), now: time.Now}
}

// Load returns the stored token for the key, or "" when absent or expired.
func (s *Store) Load(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", nil
	}
	return e.token, nil
}

// Save stores the token under the key. Last write wins.
func (s *Store) Save(_ context.Context, key, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{token: token}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

// Purge removes the token for the key. Absent keys are not an error.
func (s *Store) Purge(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
