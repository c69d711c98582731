package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/aftermath/pkg/storage"
	"github.com/redis/go-redis/v9"
)

// RedisKeyValue implements storage.KeyValue on Redis. Values never expire.
type RedisKeyValue struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisKeyValue implements KeyValue interface
var _ storage.KeyValue = (*RedisKeyValue)(nil)

// NewRedisKeyValue creates a Redis backend from a redis:// URL.
func NewRedisKeyValue(redisURL string, logger *slog.Logger) (*RedisKeyValue, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisKeyValue{
		client: redis.NewClient(opt),
		logger: logger,
	}, nil
}

func (r *RedisKeyValue) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisKeyValue) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisKeyValue) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Redis key not found", "key", key)
			return "", false, nil
		}
		r.logger.Error("Redis GET failed", "key", key, "error", err)
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}

	r.logger.Debug("Redis GET successful", "key", key, "value_length", len(val))
	return val, true, nil
}

func (r *RedisKeyValue) Set(ctx context.Context, key string, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		r.logger.Error("Redis SET failed", "key", key, "error", err)
		return fmt.Errorf("redis set failed: %w", err)
	}

	r.logger.Debug("Redis SET successful", "key", key)
	return nil
}
