package form

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_SaveAndGet(t *testing.T) {
	storage := NewMemoryStorage(time.Hour)
	ctx := context.Background()

	session := &Session{ID: "s1", Step: StepOneInput, Data: Data{FullName: "Priya Shah"}}
	require.NoError(t, storage.Save(ctx, session))

	got, err := storage.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Priya Shah", got.Data.FullName)
	assert.False(t, got.UpdatedAt.IsZero())

	// Returned sessions are copies; mutating one must not leak back.
	got.Data.FullName = "Someone Else"
	again, err := storage.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Priya Shah", again.Data.FullName)
}

func TestMemoryStorage_MissingAndDeleted(t *testing.T) {
	storage := NewMemoryStorage(time.Hour)
	ctx := context.Background()

	_, err := storage.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, storage.Save(ctx, &Session{ID: "s1"}))
	require.NoError(t, storage.Delete(ctx, "s1"))

	_, err = storage.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStorage_Expiry(t *testing.T) {
	storage := NewMemoryStorage(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, &Session{ID: "s1"}))
	time.Sleep(25 * time.Millisecond)

	_, err := storage.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 1, storage.Len())
	assert.Equal(t, 1, storage.Sweep())
	assert.Equal(t, 0, storage.Len())
}
