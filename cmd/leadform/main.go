package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	redis "github.com/redis/go-redis/v9"

	"github.com/karbonfx/leadform/internal/airtable"
	apperrors "github.com/karbonfx/leadform/internal/errors"
	"github.com/karbonfx/leadform/internal/form"
	"github.com/karbonfx/leadform/internal/health"
	"github.com/karbonfx/leadform/internal/idempotency"
	"github.com/karbonfx/leadform/internal/ipinfo"
	"github.com/karbonfx/leadform/internal/jobs"
	jobshandlers "github.com/karbonfx/leadform/internal/jobs/handlers"
	"github.com/karbonfx/leadform/internal/lifecycle"
	"github.com/karbonfx/leadform/internal/middleware"
	"github.com/karbonfx/leadform/internal/ratelimit"
	"github.com/karbonfx/leadform/internal/server"
	"github.com/karbonfx/leadform/pkg/config"
	"github.com/karbonfx/leadform/pkg/graceful"
	"github.com/karbonfx/leadform/pkg/logger"
	"github.com/karbonfx/leadform/pkg/metrics"
	appredis "github.com/karbonfx/leadform/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "leadform: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sentryEnabled := cfg.Sentry.DSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	log := logger.New(logger.Options{
		Level:         cfg.LogLevel,
		File:          cfg.Log.File,
		MaxSizeMB:     cfg.Log.MaxSizeMB,
		MaxBackups:    cfg.Log.MaxBackups,
		MaxAgeDays:    cfg.Log.MaxAgeDays,
		SentryEnabled: sentryEnabled,
	})
	slog.SetDefault(log)

	log.Info("starting leadform",
		slog.String("env", cfg.AppEnv),
		slog.String("port", cfg.HTTP.Port),
		slog.Bool("redis", cfg.Redis.Enabled),
	)

	config.Watch(v, log, func(fresh *config.Config) {
		log.Info("log level updated", slog.String("level", fresh.LogLevel))
	})

	shutdown := lifecycle.NewShutdown(log)

	var redisClient *appredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = appredis.New(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		shutdown.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	}

	store := airtable.New(airtable.Config{
		APIKey:  cfg.Airtable.APIKey,
		BaseID:  cfg.Airtable.BaseID,
		TableID: cfg.Airtable.TableID,
		BaseURL: cfg.Airtable.BaseURL,
	}, log)
	if !store.Configured() {
		log.Warn("record store credentials missing, lead writes will be skipped")
	}

	ips := ipinfo.New(cfg.Attribution.IPLookupURL, log)

	var (
		storage  form.Storage
		memStore *form.MemoryStorage
	)
	if redisClient != nil {
		storage = form.NewRedisStorage(redisClient.Client, log, cfg.Form.SessionTTL)
	} else {
		memStore = form.NewMemoryStorage(cfg.Form.SessionTTL)
		storage = memStore
	}

	machine := form.NewMachine(storage, metrics.WrapUpserter(airtable.NewResilientClient(store)), ips, log, form.Config{
		PhonePrefix:  cfg.Form.PhonePrefix,
		SuccessDelay: cfg.Form.SuccessDelay,
	})

	if redisClient != nil {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		queue := jobs.NewManager(redisOpt, log)
		machine.SetSyncEnqueuer(jobs.NewLeadSyncEnqueuer(queue, log))

		worker := jobs.NewWorker(redisOpt, log)
		worker.RegisterHandler(jobs.TaskTypeLeadSync, jobshandlers.NewLeadSyncHandler(machine, log))
		go func() {
			if err := worker.Run(); err != nil {
				log.Error("jobs worker stopped", slog.Any("error", err))
			}
		}()

		shutdown.Register("jobs-worker", func(ctx context.Context) error {
			worker.Shutdown()
			return queue.Close()
		})
	}

	rules := ratelimit.NewRules(cfg.RateLimit)
	memLimiter := ratelimit.NewMemoryLimiter()
	var limiter ratelimit.Limiter = memLimiter
	if redisClient != nil {
		limiter = ratelimit.NewAdaptiveLimiter(
			ratelimit.NewRedisLimiter(redisClient.Client, log),
			memLimiter,
			log,
		)
	}

	var (
		idemStore idempotency.Store
		idemMem   *idempotency.MemoryStore
	)
	if redisClient != nil {
		idemStore = idempotency.NewRedisStore(redisClient.Client, log)
	} else {
		idemMem = idempotency.NewMemoryStore()
		idemStore = idemMem
	}
	idemManager := idempotency.NewManager(idemStore, log)

	checker := health.NewChecker(log)
	checker.AddCheck("record_store", health.NewRecordStoreChecker(store))
	checker.AddCheck("ip_oracle", health.NewIPOracleChecker(ips))
	if redisClient != nil {
		checker.AddCheck("redis", health.NewRedisChecker(redisClient.Client))
	}

	// Background janitors.
	jobsCtx, cancelJobs := context.WithCancel(context.Background())
	if memStore != nil {
		go form.NewCleaner(memStore, log, cfg.Form.CleanupInterval).Run(jobsCtx)
	}
	go ratelimit.NewCleaner(redisRaw(redisClient), memLimiter, log, cfg.Form.CleanupInterval, 5*time.Minute).Run(jobsCtx)
	go idempotency.NewCleaner(redisRaw(redisClient), idemMem, log, time.Hour).Run(jobsCtx)
	shutdown.Register("jobs", func(ctx context.Context) error {
		cancelJobs()
		return nil
	})

	api := server.New(server.Options{
		Machine:     machine,
		Errors:      apperrors.NewHandler(log, sentryEnabled),
		Probes:      lifecycle.NewProbes(checker, log),
		RateLimit:   middleware.NewRateLimitMiddleware(limiter, rules, log),
		Idempotency: idemManager,
		Log:         log,
		AppEnv:      cfg.AppEnv,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srv := graceful.NewServer(log, httpServer, cfg.HTTP.ShutdownTimeout)
	serveErr := srv.ListenAndServe(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
	}

	if serveErr != nil && serveErr != http.ErrServerClosed {
		return serveErr
	}

	log.Info("leadform stopped")
	return nil
}

func redisRaw(client *appredis.Client) *redis.Client {
	if client == nil {
		return nil
	}
	return client.Client
}
