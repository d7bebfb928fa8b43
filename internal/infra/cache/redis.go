package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a JSON-encoding cache stored in Redis under a key prefix.
// Failures are logged and treated as misses.
type Redis[T any] struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// NewRedis wraps an existing client.
func NewRedis[T any](rdb *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *Redis[T] {
	return &Redis[T]{rdb: rdb, prefix: prefix, ttl: ttl, logger: logger}
}

func (c *Redis[T]) key(k string) string { return c.prefix + k }

// Get retrieves and decodes a value.
func (c *Redis[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache: redis get failed", zap.String("key", key), zap.Error(err))
		}
		return zero, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("cache: redis value undecodable", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return v, true
}

// Set encodes and stores a value with the configured TTL. A non-positive
// TTL stores nothing, since Redis would keep the key forever.
func (c *Redis[T]) Set(ctx context.Context, key string, value T) {
	if c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache: redis value unencodable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache: redis set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes a value.
func (c *Redis[T]) Delete(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		c.logger.Warn("cache: redis delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Ping checks the Redis connection.
func (c *Redis[T]) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *Redis[T]) Close() error {
	return c.rdb.Close()
}
