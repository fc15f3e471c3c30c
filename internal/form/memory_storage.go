package form

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps sessions in process memory with a TTL. It is the
// default backend for single-instance deployments.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// NewMemoryStorage constructs an in-memory Storage with the given TTL.
func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &MemoryStorage{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
	}
}

// Get returns a copy of the stored session or ErrSessionNotFound.
func (s *MemoryStorage) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrSessionNotFound
	}

	copied := entry.session
	return &copied, nil
}

// Save stores a copy of the session and refreshes its TTL.
func (s *MemoryStorage) Save(ctx context.Context, session *Session) error {
	if session == nil {
		return nil
	}

	session.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = &memoryEntry{
		session:   *session,
		expiresAt: time.Now().Add(s.ttl),
	}

	return nil
}

// Delete removes the session if present.
func (s *MemoryStorage) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Sweep drops expired sessions and reports how many were removed.
func (s *MemoryStorage) Sweep() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}

	return removed
}

// Len reports the number of live entries, expired ones included until the
// next sweep.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
