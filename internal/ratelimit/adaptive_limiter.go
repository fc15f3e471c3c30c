package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	rateLimitChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ratelimit_checks_total",
		Help: "Total number of rate limit checks by backend and result.",
	}, []string{"backend", "result"})

	rateLimitRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ratelimit_rejected_total",
		Help: "Total number of rejected requests per backend.",
	}, []string{"backend"})

	rateLimitRedisErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ratelimit_redis_errors_total",
		Help: "Total number of Redis errors encountered by the limiter.",
	})
)

func init() {
	prometheus.MustRegister(rateLimitChecksTotal, rateLimitRejectedTotal, rateLimitRedisErrorsTotal)
}

// AdaptiveLimiter delegates to a primary (Redis) limiter and falls back to
// a stricter in-memory limiter when the primary backend fails. A rejection
// from the primary is a normal outcome and never triggers the fallback.
type AdaptiveLimiter struct {
	primary  Limiter
	fallback Limiter
	log      *slog.Logger
}

// NewAdaptiveLimiter creates a limiter that adapts between Redis and in-memory backends.
func NewAdaptiveLimiter(primary, fallback Limiter, log *slog.Logger) Limiter {
	if log == nil {
		log = slog.Default()
	}

	return &AdaptiveLimiter{
		primary:  primary,
		fallback: fallback,
		log:      log,
	}
}

// Check evaluates the limit using the primary backend, falling back to memory
// on backend errors. The fallback runs with half the configured limit so a
// degraded Redis never makes the form easier to hammer.
func (a *AdaptiveLimiter) Check(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	result, err := a.primary.Check(ctx, key, limit, window)
	switch {
	case err == nil:
		rateLimitChecksTotal.WithLabelValues("redis", "allowed").Inc()
		return result, nil
	case errors.Is(err, ErrLimitExceeded):
		rateLimitChecksTotal.WithLabelValues("redis", "rejected").Inc()
		rateLimitRejectedTotal.WithLabelValues("redis").Inc()
		return result, err
	}

	rateLimitRedisErrorsTotal.Inc()
	a.log.Warn("redis limiter failed, falling back to in-memory", "key", key, "error", err)

	fallbackLimit := limit / 2
	if fallbackLimit <= 0 {
		fallbackLimit = 1
	}

	fallbackResult, fallbackErr := a.fallback.Check(ctx, key, fallbackLimit, window)
	switch {
	case fallbackErr == nil:
		rateLimitChecksTotal.WithLabelValues("fallback", "allowed").Inc()
		return fallbackResult, nil
	case errors.Is(fallbackErr, ErrLimitExceeded):
		rateLimitChecksTotal.WithLabelValues("fallback", "rejected").Inc()
		rateLimitRejectedTotal.WithLabelValues("fallback").Inc()
	}
	return fallbackResult, fallbackErr
}
