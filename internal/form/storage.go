package form

import (
	"context"
	"errors"
)

// ErrSessionNotFound indicates that a session does not exist or has expired.
var ErrSessionNotFound = errors.New("form session not found")

// Storage defines the persistence contract for form sessions.
type Storage interface {
	// Get returns the session with the given ID.
	Get(ctx context.Context, id string) (*Session, error)
	// Save persists the session, refreshing its TTL.
	Save(ctx context.Context, session *Session) error
	// Delete removes the session.
	Delete(ctx context.Context, id string) error
}
