package form

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner sweeps expired sessions out of a MemoryStorage on a schedule.
// Redis-backed storage expires keys on its own and needs no cleaner.
type Cleaner struct {
	storage  *MemoryStorage
	log      *slog.Logger
	interval time.Duration
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(storage *MemoryStorage, log *slog.Logger, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Cleaner{
		storage:  storage,
		log:      log,
		interval: interval,
	}
}

// Run starts the cleanup loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.storage == nil {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("session cleaner stopped")
			return
		case <-ticker.C:
			if removed := c.storage.Sweep(); removed > 0 {
				c.log.Info("expired sessions removed", slog.Int("count", removed))
			}
		}
	}
}
