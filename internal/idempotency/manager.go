package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

var ErrRequestInProgress = errors.New("request with this key is already in progress")

type Operation func(ctx context.Context) (interface{}, error)

type Result struct {
	Response  interface{}
	FromCache bool
}

type Manager interface {
	Execute(
		ctx context.Context,
		key string,
		ttl time.Duration,
		fn Operation,
	) (*Result, error)
}

type manager struct {
	store Store
	log   *slog.Logger
}

func NewManager(store Store, log *slog.Logger) Manager {
	if log == nil {
		log = slog.Default()
	}

	return &manager{
		store: store,
		log:   log,
	}
}

// Execute runs fn at most once per key. A completed record short-circuits
// into a cached replay; a concurrent holder of the lock surfaces as
// ErrRequestInProgress. Failed operations are not recorded, so the caller
// may retry them with the same key.
func (m *manager) Execute(ctx context.Context, key string, ttl time.Duration, fn Operation) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if fn == nil {
		return nil, errors.New("operation fn cannot be nil")
	}

	record, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if record != nil && record.Status == StatusCompleted {
		return replay(record)
	}

	locked, err := m.store.Lock(ctx, key, 5*time.Minute)
	if err != nil {
		return nil, err
	}
	if !locked {
		// The first request with this key has not settled yet. Re-check
		// once in case it completed between Get and Lock.
		record, err := m.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if record != nil && record.Status == StatusCompleted {
			return replay(record)
		}
		return nil, ErrRequestInProgress
	}

	defer func() {
		if err := m.store.ReleaseLock(ctx, key); err != nil {
			m.log.Warn("failed to release idempotency lock", slog.String("key", key), slog.Any("error", err))
		}
	}()

	result, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	responseBytes, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	if err := m.store.Set(ctx, key, &Record{
		Status:   StatusCompleted,
		Response: responseBytes,
	}, ttl); err != nil {
		return nil, err
	}

	return &Result{
		Response:  result,
		FromCache: false,
	}, nil
}

func replay(record *Record) (*Result, error) {
	var response interface{}
	if len(record.Response) > 0 {
		if err := json.Unmarshal(record.Response, &response); err != nil {
			return nil, err
		}
	}

	return &Result{Response: response, FromCache: true}, nil
}
