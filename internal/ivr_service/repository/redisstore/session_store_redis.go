package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ivrclaimassist/golang_services/internal/ivr_service/domain"
)

const sessionKeyPrefix = "ivr:session:"

// RedisSessionStore keeps per-call session state in Redis with a fixed
// inactivity TTL. Every write refreshes the TTL, so the session expires
// only after the caller has been silent for the whole window. An expired
// key is indistinguishable from one that never existed.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl, logger: logger}
}

func sessionKey(callSID string) string {
	return sessionKeyPrefix + callSID
}

func (s *RedisSessionStore) Get(ctx context.Context, callSID string) (*domain.CallSession, error) {
	data, err := s.client.Get(ctx, sessionKey(callSID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Error reading call session", "error", err, "call_sid", callSID)
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session domain.CallSession
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.ErrorContext(ctx, "Error decoding call session", "error", err, "call_sid", callSID)
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, callSID string, session *domain.CallSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(callSID), data, s.ttl).Err(); err != nil {
		s.logger.ErrorContext(ctx, "Error writing call session", "error", err, "call_sid", callSID)
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Clear(ctx context.Context, callSID string) error {
	if err := s.client.Del(ctx, sessionKey(callSID)).Err(); err != nil {
		s.logger.ErrorContext(ctx, "Error clearing call session", "error", err, "call_sid", callSID)
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
