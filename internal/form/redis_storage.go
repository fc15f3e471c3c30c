package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPattern = "form:session:%s"

// RedisStorage persists form sessions in Redis so the wizard survives a
// rolling restart or load-balanced multi-instance deployments. Entries
// expire with the configured TTL; nothing durable outlives the session.
type RedisStorage struct {
	client *redis.Client
	log    *slog.Logger
	ttl    time.Duration
}

// NewRedisStorage initializes a Redis-backed Storage implementation.
func NewRedisStorage(client *redis.Client, log *slog.Logger, ttl time.Duration) Storage {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &RedisStorage{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

// Get returns the stored session or ErrSessionNotFound when absent.
func (s *RedisStorage) Get(ctx context.Context, id string) (*Session, error) {
	key := redisSessionKey(id)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}

		s.log.Error("failed to get session from redis", "session_id", id, "error", err)
		return nil, err
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		s.log.Error("failed to decode session", "session_id", id, "error", err)
		return nil, err
	}

	return &session, nil
}

// Save stores the session with the configured TTL.
func (s *RedisStorage) Save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(session)
	if err != nil {
		s.log.Error("failed to encode session", "session_id", session.ID, "error", err)
		return err
	}

	key := redisSessionKey(session.ID)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.log.Error("failed to save session in redis", "session_id", session.ID, "error", err)
		return err
	}

	return nil
}

// Delete removes the stored session.
func (s *RedisStorage) Delete(ctx context.Context, id string) error {
	key := redisSessionKey(id)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.Error("failed to delete session", "session_id", id, "error", err)
		return err
	}

	return nil
}

func redisSessionKey(id string) string {
	return fmt.Sprintf(sessionKeyPattern, id)
}
