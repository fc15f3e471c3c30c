package idempotency

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	record    *Record
	expiresAt time.Time
}

// MemoryStore is the Store used when Redis is disabled. Locks and records
// live in process memory, which is enough for a single replica.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]memoryEntry
	locks   map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryEntry),
		locks:   make(map[string]time.Time),
	}
}

func (s *MemoryStore) Lock(ctx context.Context, key string, lockTTL time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, held := s.locks[key]; held && time.Now().Before(expiry) {
		return false, nil
	}

	s.locks[key] = time.Now().Add(lockTTL)
	return true, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.records[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}

	copied := *entry.record
	return &copied, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, record *Record, ttl time.Duration) error {
	if record == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.records[key] = memoryEntry{record: &copied, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Sweep drops expired records and dead locks. Get already hides expired
// entries, so this only reclaims the memory behind them.
func (s *MemoryStore) Sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.records {
		if now.After(entry.expiresAt) {
			delete(s.records, key)
		}
	}

	for key, expiry := range s.locks {
		if now.After(expiry) {
			delete(s.locks, key)
		}
	}
}

func (s *MemoryStore) ReleaseLock(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, key)
	return nil
}
