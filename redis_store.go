package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps one JSON document per user under session:{userID}.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisSessionStore connects to redisURL and checks the connection.
// A zero ttl stores sessions without expiry.
func NewRedisSessionStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisSessionStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSessionStoreWithClient(client, ttl), nil
}

func NewRedisSessionStoreWithClient(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

func (r *RedisSessionStore) Get(ctx context.Context, userID string) (Session, bool, error) {
	data, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("%w: failed to get session %s: %w", ErrSessionStore, userID, err)
	}

	var session Session
	if err := sonic.Unmarshal(data, &session); err != nil {
		return Session{}, false, fmt.Errorf("%w: failed to unmarshal session %s: %w", ErrSessionStore, userID, err)
	}
	return session, true, nil
}

func (r *RedisSessionStore) Upsert(ctx context.Context, session Session) error {
	stampSession(&session, time.Time{}, r.now())

	data, err := sonic.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.UserID, err)
	}

	if err := r.client.Set(ctx, sessionKey(session.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to set session %s: %w", ErrSessionStore, session.UserID, err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: failed to delete session %s: %w", ErrSessionStore, userID, err)
	}
	return nil
}

// Ping tests the Redis connection.
func (r *RedisSessionStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionStore, err)
	}
	return nil
}

func (r *RedisSessionStore) Close() error {
	return r.client.Close()
}
