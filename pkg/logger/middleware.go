package logger

import (
	"context"

	"github.com/google/uuid"
)

// CorrelationHeader carries the request's correlation identifier back to
// the client so support can match a complaint to a log line.
const CorrelationHeader = "X-Correlation-ID"

// correlationIDKey marks the context storage slot for the correlation identifier.
type correlationIDKey struct{}

// NewCorrelationID mints a fresh correlation identifier.
func NewCorrelationID() string {
	return uuid.NewString()
}

// CorrelationIDFromContext returns the correlation identifier stored in ctx, or an empty string when absent.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}

	return ""
}

// WithCorrelationID stores the identifier in the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}
