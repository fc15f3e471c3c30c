package errors

import (
	"context"
	"errors"
	"math"
	"time"
)

// Backoff tuning for the record store write path. Airtable rate limits at
// five requests per second per base and answers 429 until the client backs
// off, so the first pause is already generous and the cap stays under what
// a visitor will wait on a form submit.
const (
	MaxRetries        = 2
	InitialBackoff    = 500 * time.Millisecond
	MaxBackoff        = 8 * time.Second
	BackoffMultiplier = 2.0
)

// WithRetry runs fn up to MaxRetries+1 times with exponential backoff,
// stopping early on success, on a non-retryable error, or when ctx is
// cancelled. Only errors carrying Retryable (rate limits and 5xx from the
// record store) are retried.
func WithRetry(ctx context.Context, fn func() error) error {
	if fn == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err = fn()
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return err
		}

		if attempt == MaxRetries {
			return err
		}

		backoff := calculateBackoffDuration(attempt + 1)
		time.Sleep(backoff)
	}

	return err
}

// IsRetryable reports whether err is an AppError flagged as transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Retryable
	}

	return false
}

func calculateBackoffDuration(attempt int) time.Duration {
	delay := float64(InitialBackoff) * math.Pow(BackoffMultiplier, float64(attempt))
	backoff := time.Duration(delay)
	if backoff > MaxBackoff {
		return MaxBackoff
	}

	return backoff
}
