package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SweepReclaimsExpiredRecords(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		err := store.Set(ctx, key, &Record{Status: StatusCompleted}, time.Millisecond)
		require.NoError(t, err)
	}

	time.Sleep(5 * time.Millisecond)

	record, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, record)

	store.Sweep()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.records)
}

func TestMemoryStore_SweepKeepsLiveRecords(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "live", &Record{Status: StatusCompleted}, time.Hour))
	require.NoError(t, store.Set(ctx, "dead", &Record{Status: StatusCompleted}, time.Millisecond))

	time.Sleep(5 * time.Millisecond)
	store.Sweep()

	record, err := store.Get(ctx, "live")
	require.NoError(t, err)
	assert.NotNil(t, record)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.records, 1)
}

func TestMemoryStore_SweepDropsDeadLocks(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	acquired, err := store.Lock(ctx, "stale", time.Millisecond)
	require.NoError(t, err)
	require.True(t, acquired)

	time.Sleep(5 * time.Millisecond)
	store.Sweep()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.locks)
}
