package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/karbonfx/leadform/internal/ratelimit"
)

// RateLimitMiddleware enforces per-visitor rate limits on the form API.
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	rules   *ratelimit.Rules
	log     *slog.Logger
}

// NewRateLimitMiddleware constructs a rate-limit middleware component.
func NewRateLimitMiddleware(limiter ratelimit.Limiter, rules *ratelimit.Rules, log *slog.Logger) *RateLimitMiddleware {
	if log == nil {
		log = slog.Default()
	}

	return &RateLimitMiddleware{
		limiter: limiter,
		rules:   rules,
		log:     log,
	}
}

// Global limits every request by client IP.
func (m *RateLimitMiddleware) Global() gin.HandlerFunc {
	return m.handle("global", func() (int, time.Duration) {
		return m.rules.GlobalLimit()
	})
}

// Submit applies the stricter rule reserved for step submissions.
func (m *RateLimitMiddleware) Submit() gin.HandlerFunc {
	return m.handle("submit", func() (int, time.Duration) {
		return m.rules.SubmitLimit()
	})
}

func (m *RateLimitMiddleware) handle(scope string, rule func() (int, time.Duration)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.limiter == nil || m.rules == nil || !m.rules.Enabled() {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if m.rules.IsAllowlisted(clientIP) {
			c.Next()
			return
		}

		limit, window := rule()
		if limit <= 0 || window <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", scope, clientIP)
		result, err := m.limiter.Check(c.Request.Context(), key, limit, window)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, ratelimit.ErrLimitExceeded):
			m.log.Warn("rate limit exceeded",
				slog.String("scope", scope),
				slog.String("client_ip", clientIP),
			)
			if result != nil && !result.ResetAt.IsZero() {
				c.Header("Retry-After", fmt.Sprintf("%d", int(time.Until(result.ResetAt).Seconds())+1))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Try again later.",
			})
		default:
			// A broken limiter must not take the form down with it.
			m.log.Warn("rate limiter error",
				slog.String("scope", scope),
				slog.String("client_ip", clientIP),
				slog.Any("error", err),
			)
			c.Next()
		}
	}
}
