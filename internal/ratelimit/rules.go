package ratelimit

import (
	"time"

	"github.com/karbonfx/leadform/pkg/config"
)

// Rules encapsulates configured rate limits and helper methods.
type Rules struct {
	config config.RateLimitConfig
}

// NewRules constructs rate limiting rules from configuration settings.
func NewRules(cfg config.RateLimitConfig) *Rules {
	return &Rules{config: cfg}
}

// Enabled reports whether rate limiting is turned on at all.
func (r *Rules) Enabled() bool {
	return r.config.Enabled
}

// IsAllowlisted returns true if the client IP bypasses rate limits.
func (r *Rules) IsAllowlisted(ip string) bool {
	for _, allowed := range r.config.Allowlist {
		if allowed == ip {
			return true
		}
	}
	return false
}

// GlobalLimit returns the rule applied to every request.
func (r *Rules) GlobalLimit() (int, time.Duration) {
	return r.config.Global.Limit, r.config.Global.Window
}

// SubmitLimit returns the stricter rule for step submissions. It falls back
// to the global rule when no submit rule is configured.
func (r *Rules) SubmitLimit() (int, time.Duration) {
	if r.config.Submit.Limit > 0 && r.config.Submit.Window > 0 {
		return r.config.Submit.Limit, r.config.Submit.Window
	}
	return r.GlobalLimit()
}
