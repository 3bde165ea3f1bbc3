package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// NewRedisClient creates a Redis client for the cache backing store and
// verifies the connection with a ping.
//
// Connection failure does not prevent startup: the caller receives the
// error and is expected to fall back to a disabled cache rather than
// abort, since the cache is best-effort.
func NewRedisClient(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            addr,
		PoolSize:        20,
		MinIdleConns:    2,
		DialTimeout:     3 * time.Second,
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    2 * time.Second,
		ConnMaxIdleTime: 5 * time.Minute,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// RedisStore is the Redis-backed Store implementation. Values are
// serialized as JSON and expired server-side via per-entry TTLs.
//
// Backend calls run through a ratio-based breaker so a dead Redis is not
// hammered on every request; while that breaker is open, reads report
// misses and writes are dropped.
type RedisStore struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
}

// NewRedisStore creates a RedisStore on top of an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	settings := gobreaker.Settings{
		Name:        "cache-redis",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("cache backend breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &RedisStore{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Get loads the JSON value stored under key into dest. Missing and
// expired entries, backend failures, and decode failures all report a
// plain miss.
func (s *RedisStore) Get(ctx context.Context, key string, dest any) bool {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		raw, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			// A miss is a normal outcome, not a backend failure.
			return nil, nil
		}
		return raw, err
	})
	if err != nil {
		slog.Error("cache get failed, treating as miss",
			slog.String("key", key),
			slog.Any("error", err))
		return false
	}

	raw, ok := result.([]byte)
	if !ok || raw == nil {
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		slog.Error("cache entry decode failed, treating as miss",
			slog.String("key", key),
			slog.Any("error", err))
		return false
	}
	return true
}

// Set stores value under key with the given TTL. Failures are logged and
// swallowed.
func (s *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Error("cache value encode failed, skipping set",
			slog.String("key", key),
			slog.Any("error", err))
		return
	}

	if _, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, key, raw, ttl).Err()
	}); err != nil {
		slog.Error("cache set failed",
			slog.String("key", key),
			slog.Any("error", err))
	}
}

// Delete removes the entry for key. Failures are logged and swallowed.
func (s *RedisStore) Delete(ctx context.Context, key string) {
	if _, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, key).Err()
	}); err != nil {
		slog.Error("cache delete failed",
			slog.String("key", key),
			slog.Any("error", err))
	}
}
