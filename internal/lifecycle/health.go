package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/karbonfx/leadform/internal/health"
)

// HealthChecker exposes liveness and readiness probes.
type HealthChecker interface {
	Liveness(ctx context.Context) error
	Readiness(ctx context.Context) error
}

// Probes implements HealthChecker on top of the component health checker.
// Liveness only proves the process is running; readiness requires every
// registered dependency check to pass.
type Probes struct {
	checker *health.Checker
	log     *slog.Logger
}

// NewProbes creates a new Probes instance.
func NewProbes(checker *health.Checker, log *slog.Logger) *Probes {
	if log == nil {
		log = slog.Default()
	}
	return &Probes{checker: checker, log: log}
}

// Liveness reports success as long as the process can answer.
func (p *Probes) Liveness(ctx context.Context) error {
	return nil
}

// Readiness runs the component checks and fails if any dependency is down.
func (p *Probes) Readiness(ctx context.Context) error {
	if p.checker == nil {
		return nil
	}

	results := p.checker.Check(ctx)
	if health.Healthy(results) {
		return nil
	}

	for name, status := range results {
		if status != "OK" {
			return fmt.Errorf("%s: %s", name, status)
		}
	}
	return nil
}
