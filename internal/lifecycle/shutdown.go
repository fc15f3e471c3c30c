package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Shutdown runs the teardown hooks registered at startup, in parallel. The
// service registers the sync worker drain, the Redis close, and the janitor
// cancel here; none of them depend on another finishing first.
type Shutdown struct {
	mu    sync.Mutex
	hooks []Hook
	log   *slog.Logger
}

// NewShutdown constructs a new Shutdown coordinator.
func NewShutdown(log *slog.Logger) *Shutdown {
	if log == nil {
		log = slog.Default()
	}

	return &Shutdown{log: log}
}

// Register adds a named hook. Nil functions are ignored so callers can
// register conditionally wired components without guarding.
func (s *Shutdown) Register(name string, fn func(context.Context) error) {
	if fn == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks = append(s.hooks, Hook{Name: name, Fn: fn})
}

// Execute runs every registered hook concurrently, waits for all of them,
// and reports the failures joined into one error. Hooks share the caller's
// deadline; a hook that overruns it is the caller's to bound.
func (s *Shutdown) Execute(ctx context.Context) error {
	s.mu.Lock()
	hooks := append([]Hook(nil), s.hooks...)
	s.mu.Unlock()

	start := time.Now()
	if s.log != nil {
		s.log.Info("shutdown sequence started", slog.Int("hook_count", len(hooks)))
	}

	var wg sync.WaitGroup
	var errMu sync.Mutex
	errs := make([]string, 0)

	for _, hook := range hooks {
		h := hook
		if h.Fn == nil {
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			hookCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			if s.log != nil {
				s.log.Info("running shutdown hook", slog.String("hook", h.Name))
			}

			if err := h.Fn(hookCtx); err != nil {
				if s.log != nil {
					s.log.Error("shutdown hook failed", slog.String("hook", h.Name), slog.Any("error", err))
				}
				errMu.Lock()
				errs = append(errs, fmt.Sprintf("%s: %v", h.Name, err))
				errMu.Unlock()
				return
			}

			if s.log != nil {
				s.log.Info("shutdown hook completed", slog.String("hook", h.Name))
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	if s.log != nil {
		s.log.Info("shutdown sequence finished", slog.Duration("elapsed", elapsed))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}
