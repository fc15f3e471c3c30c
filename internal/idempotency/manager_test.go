package idempotency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecute_RunsOnce(t *testing.T) {
	m := NewManager(NewMemoryStore(), testLogger())
	ctx := context.Background()

	calls := 0
	op := func(ctx context.Context) (interface{}, error) {
		calls++
		return map[string]string{"outcome": "done"}, nil
	}

	first, err := m.Execute(ctx, "key-1", time.Hour, op)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := m.Execute(ctx, "key-1", time.Hour, op)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, calls)

	replayed, ok := second.Response.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "done", replayed["outcome"])
}

func TestExecute_FailureIsRetryable(t *testing.T) {
	m := NewManager(NewMemoryStore(), testLogger())
	ctx := context.Background()

	calls := 0
	_, err := m.Execute(ctx, "key-2", time.Hour, func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("store write failed")
	})
	require.Error(t, err)

	result, err := m.Execute(ctx, "key-2", time.Hour, func(ctx context.Context) (interface{}, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 2, calls)
}

func TestExecute_ConcurrentHolderRejected(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, testLogger())
	ctx := context.Background()

	locked, err := store.Lock(ctx, "key-3", time.Minute)
	require.NoError(t, err)
	require.True(t, locked)

	_, err = m.Execute(ctx, "key-3", time.Hour, func(ctx context.Context) (interface{}, error) {
		return "never", nil
	})
	assert.ErrorIs(t, err, ErrRequestInProgress)
}

func TestGenerateKey_Deterministic(t *testing.T) {
	a := GenerateKey("session-1", "/v1/sessions/:id/step1", "client-key")
	b := GenerateKey("session-1", "/v1/sessions/:id/step1", "client-key")
	c := GenerateKey("session-2", "/v1/sessions/:id/step1", "client-key")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
