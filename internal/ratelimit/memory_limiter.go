package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a sliding-window limiter held in process memory, the
// default for single-instance deployments.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter returns an in-memory limiter implementation.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string][]time.Time),
	}
}

// Check enforces a sliding-window limit for the provided key.
func (m *MemoryLimiter) Check(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	m.mu.Lock()
	defer m.mu.Unlock()

	recent := pruneBefore(m.windows[key], windowStart)

	allowed := len(recent) < limit
	if allowed {
		recent = append(recent, now)
	}
	m.windows[key] = recent

	remaining := limit - len(recent)
	if remaining < 0 {
		remaining = 0
	}

	// The window frees a slot when its oldest hit ages out.
	resetAt := now
	if len(recent) > 0 {
		resetAt = recent[0].Add(window)
	}

	result := &Result{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   resetAt,
	}

	if !allowed {
		return result, ErrLimitExceeded
	}

	return result, nil
}

// Sweep removes keys whose newest hit is older than maxAge.
func (m *MemoryLimiter) Sweep(maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}

	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, hits := range m.windows {
		if len(hits) == 0 || hits[len(hits)-1].Before(cutoff) {
			delete(m.windows, key)
		}
	}
}

func pruneBefore(hits []time.Time, windowStart time.Time) []time.Time {
	idx := 0
	for idx < len(hits) && hits[idx].Before(windowStart) {
		idx++
	}

	if idx == 0 {
		return hits
	}

	return append(hits[:0], hits[idx:]...)
}
