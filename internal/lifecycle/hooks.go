package lifecycle

import "context"

// Hook is one named teardown step, such as draining the sync worker or
// closing the Redis connection.
type Hook struct {
	Name string
	Fn   func(ctx context.Context) error
}
