// Package redis provides the shared Redis client used for session storage
// and rate limiting.
package redis

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/karbonfx/leadform/pkg/config"
)

// Client wraps the go-redis client so callers depend on one construction
// path with metrics attached.
type Client struct {
	*redis.Client
}

// New creates a Redis client configured with cfg and verifies the
// connection with Ping. Every command issued through the client is
// instrumented via a hook.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	opts := &redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,
	}

	rdb := redis.NewClient(opts)
	rdb.AddHook(newMetricsHook())

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Client{rdb}, nil
}

// Close shuts down the Redis client.
func (c *Client) Close() error {
	return c.Client.Close()
}
