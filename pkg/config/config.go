package config

import "time"

// Config holds runtime configuration for the lead-capture service.
type Config struct {
	AppEnv   string `mapstructure:"-"`
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`

	HTTP        HTTPConfig        `mapstructure:"http"`
	Log         LogConfig         `mapstructure:"log"`
	Sentry      SentryConfig      `mapstructure:"sentry"`
	Airtable    AirtableConfig    `mapstructure:"airtable"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Form        FormConfig        `mapstructure:"form"`
	Attribution AttributionConfig `mapstructure:"attribution"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
}

// HTTPConfig configures the public HTTP listener.
type HTTPConfig struct {
	Port            string        `mapstructure:"port" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig configures file logging rotation. An empty File disables the
// rotating sink and logs go to stdout only.
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// SentryConfig enables error reporting when a DSN is present.
type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

// AirtableConfig addresses the record store. Key and base come from the
// environment in every real deployment; their absence is surfaced as a
// configuration error at write time, not at startup.
type AirtableConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseID  string `mapstructure:"base_id"`
	TableID string `mapstructure:"table_id" validate:"required"`
	BaseURL string `mapstructure:"base_url"`
}

// RedisConfig configures the optional Redis session backend.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// FormConfig tunes the wizard state machine.
type FormConfig struct {
	PhonePrefix     string        `mapstructure:"phone_prefix"`
	SuccessDelay    time.Duration `mapstructure:"success_delay"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// AttributionConfig points at the external IP oracle.
type AttributionConfig struct {
	IPLookupURL string `mapstructure:"ip_lookup_url"`
}

// RateLimitConfig bounds requests per client IP. Submit endpoints carry
// their own, stricter rule; everything else falls under Global.
type RateLimitConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Global    RateLimitRule `mapstructure:"global"`
	Submit    RateLimitRule `mapstructure:"submit"`
	Allowlist []string      `mapstructure:"allowlist"`
}

// RateLimitRule is a single limit-per-window pair.
type RateLimitRule struct {
	Limit  int           `mapstructure:"limit" validate:"omitempty,gt=0"`
	Window time.Duration `mapstructure:"window"`
}
