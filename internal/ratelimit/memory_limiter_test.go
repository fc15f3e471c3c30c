package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiter_AllowsWithinLimit(t *testing.T) {
	limiter := NewMemoryLimiter()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.Check(ctx, "visitor:198.51.100.4", 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 5-i-1, result.Remaining)
	}
}

func TestMemoryLimiter_BlocksWhenExceeded(t *testing.T) {
	limiter := NewMemoryLimiter()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := limiter.Check(ctx, "visitor:blocks", 2, time.Minute)
		assert.NoError(t, err)
	}

	result, err := limiter.Check(ctx, "visitor:blocks", 2, time.Minute)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
}

func TestMemoryLimiter_BlockedResultResetsInFuture(t *testing.T) {
	limiter := NewMemoryLimiter()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := limiter.Check(ctx, "visitor:reset", 2, time.Minute)
		assert.NoError(t, err)
	}

	result, err := limiter.Check(ctx, "visitor:reset", 2, time.Minute)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	retryAfter := time.Until(result.ResetAt)
	assert.Greater(t, retryAfter, 30*time.Second)
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter()
	ctx := context.Background()

	_, err := limiter.Check(ctx, "visitor:a", 1, time.Minute)
	assert.NoError(t, err)

	_, err = limiter.Check(ctx, "visitor:a", 1, time.Minute)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	result, err := limiter.Check(ctx, "visitor:b", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestMemoryLimiter_SweepDropsIdleKeys(t *testing.T) {
	limiter := NewMemoryLimiter()
	ctx := context.Background()

	_, err := limiter.Check(ctx, "visitor:idle", 1, time.Millisecond)
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	limiter.Sweep(time.Millisecond)

	result, err := limiter.Check(ctx, "visitor:idle", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}
