package airtable

import (
	"context"

	apperrors "github.com/karbonfx/leadform/internal/errors"
)

// ResilientClient wraps Client with a circuit breaker and a retry policy.
// Updates are idempotent and retried on retryable failures; creates run at
// most once, since a lost response would mint a duplicate lead record.
type ResilientClient struct {
	next    *Client
	breaker *apperrors.CircuitBreaker
}

// NewResilientClient decorates the client with the write resilience policy.
func NewResilientClient(next *Client) *ResilientClient {
	return &ResilientClient{
		next:    next,
		breaker: apperrors.NewCircuitBreaker(),
	}
}

// Upsert forwards to the underlying client through the circuit breaker.
func (r *ResilientClient) Upsert(ctx context.Context, fields map[string]string, recordID string) (*UpsertResult, error) {
	var result *UpsertResult

	guarded := func() error {
		return r.breaker.Call(func() error {
			var err error
			result, err = r.next.Upsert(ctx, fields, recordID)
			return err
		})
	}

	if recordID == "" {
		if err := guarded(); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := apperrors.WithRetry(ctx, guarded); err != nil {
		return nil, err
	}
	return result, nil
}
