// Package config provides configuration loading and validation utilities.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from YAML files and environment variables,
// validates it, and returns the resulting Config together with the viper
// instance for hot-reload watching.
func Load() (*Config, *viper.Viper, error) {
	if err := godotenv.Load(".env.local", ".env"); err != nil {
		// env files are optional outside local development
		_ = err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, v, nil
}

// Watch re-reads the config file on change and hands the fresh Config to
// onChange. Used to adjust the log level without a restart.
func Watch(v *viper.Viper, log *slog.Logger, onChange func(*Config)) {
	if v == nil || onChange == nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			if log != nil {
				log.Error("config reload failed", slog.String("file", e.Name), slog.Any("error", err))
			}
			return
		}

		if log != nil {
			log.Info("config reloaded", slog.String("file", e.Name))
		}
		onChange(&cfg)
	})
	v.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.shutdown_timeout", "15s")
	v.SetDefault("airtable.table_id", "tblW69KuZCiBzEA1R")
	v.SetDefault("form.phone_prefix", "+91")
	v.SetDefault("form.success_delay", "1s")
	v.SetDefault("form.session_ttl", "1h")
	v.SetDefault("form.cleanup_interval", "5m")
	v.SetDefault("attribution.ip_lookup_url", "https://api.ipify.org?format=json")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.global.limit", 60)
	v.SetDefault("rate_limit.global.window", "1m")
	v.SetDefault("rate_limit.submit.limit", 10)
	v.SetDefault("rate_limit.submit.window", "1m")
}
