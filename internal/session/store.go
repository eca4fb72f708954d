// Package session issues opaque session tokens and resolves them to user IDs
// through a pluggable server-side store.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"expense-tracker/internal/domain"
)

// ErrNotFound is returned for unknown, destroyed or expired tokens.
var ErrNotFound = errors.New("session not found")

// Store keeps the token -> session mapping. Implementations must be safe for concurrent use.
type Store interface {
	// Save records sess. A ttl of zero means the entry never expires.
	Save(ctx context.Context, sess domain.Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	// Delete is idempotent.
	Delete(ctx context.Context, token string) error
}

type memoryEntry struct {
	session   domain.Session
	expiresAt time.Time
}

// MemoryStore holds sessions in process memory. Everything is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, sess domain.Session, ttl time.Duration) error {
	now := s.now()
	entry := memoryEntry{session: sess}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	s.mu.Lock()
	s.sweepLocked(now)
	s.entries[sess.Token] = entry
	s.mu.Unlock()
	return nil
}

// sweepLocked drops expired entries so abandoned sessions do not accumulate.
func (s *MemoryStore) sweepLocked(now time.Time) {
	for token, entry := range s.entries {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(s.entries, token)
		}
	}
}

func (s *MemoryStore) Get(_ context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.entries[token]; ok && cur.expiresAt.Equal(entry.expiresAt) {
			delete(s.entries, token)
		}
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	sess := entry.session
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
