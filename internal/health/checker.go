package health

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/karbonfx/leadform/internal/airtable"
	"github.com/karbonfx/leadform/internal/ipinfo"
)

// Checkable represents a component that can report its health status.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// Checker aggregates health checks for multiple components.
type Checker struct {
	log    *slog.Logger
	checks map[string]Checkable
}

// NewChecker instantiates a Checker with the provided logger.
func NewChecker(log *slog.Logger) *Checker {
	return &Checker{
		log:    log,
		checks: make(map[string]Checkable),
	}
}

// AddCheck registers a checkable component by name.
func (c *Checker) AddCheck(name string, check Checkable) {
	if name == "" || check == nil {
		return
	}
	c.checks[name] = check
}

// Check runs all registered health checks and returns their statuses.
func (c *Checker) Check(ctx context.Context) map[string]string {
	results := make(map[string]string, len(c.checks))

	for name, check := range c.checks {
		if check == nil {
			results[name] = "no check configured"
			continue
		}

		if err := check.HealthCheck(ctx); err != nil {
			results[name] = err.Error()
			if c.log != nil {
				c.log.Error("health check failed", slog.String("component", name), slog.Any("error", err))
			}
			continue
		}

		results[name] = "OK"
	}

	return results
}

// Healthy reports whether every registered check passed.
func Healthy(results map[string]string) bool {
	for _, status := range results {
		if status != "OK" {
			return false
		}
	}
	return true
}

// Pinger abstracts the subset of redis.Client used for health checks.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisChecker verifies connectivity to a Redis instance.
type RedisChecker struct {
	pinger Pinger
}

// NewRedisChecker constructs a RedisChecker.
func NewRedisChecker(pinger Pinger) *RedisChecker {
	return &RedisChecker{pinger: pinger}
}

// HealthCheck issues a PING command against Redis.
func (c *RedisChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.pinger == nil {
		return redis.ErrClosed
	}
	return c.pinger.Ping(ctx).Err()
}

// RecordStoreChecker verifies that record store credentials are present.
// It deliberately does not call the Airtable API: the store is metered and
// a health probe must never burn quota or trip its rate limits.
type RecordStoreChecker struct {
	client *airtable.Client
}

// NewRecordStoreChecker constructs a RecordStoreChecker.
func NewRecordStoreChecker(client *airtable.Client) *RecordStoreChecker {
	return &RecordStoreChecker{client: client}
}

// HealthCheck reports whether the record store client has usable credentials.
func (c *RecordStoreChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("record store client is not initialized")
	}
	if !c.client.Configured() {
		return errors.New("record store credentials are missing")
	}
	return nil
}

// IPOracleChecker verifies that the public IP lookup service responds.
type IPOracleChecker struct {
	resolver ipinfo.Resolver
}

// NewIPOracleChecker constructs an IPOracleChecker.
func NewIPOracleChecker(resolver ipinfo.Resolver) *IPOracleChecker {
	return &IPOracleChecker{resolver: resolver}
}

// HealthCheck resolves the server's public IP. The resolver reports all
// failures as the unknown sentinel rather than an error, so the sentinel is
// translated back into one here.
func (c *IPOracleChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.resolver == nil {
		return errors.New("ip resolver is not initialized")
	}
	if ip := c.resolver.Resolve(ctx); ip == ipinfo.UnknownIP {
		return errors.New("ip lookup service is unreachable")
	}
	return nil
}
