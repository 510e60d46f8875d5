package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pricescout/backend/internal/domain"
)

// RedisCache is an offer cache backed by Redis. Expiry is delegated to the
// Redis TTL on each key. Backend errors are returned as-is so callers can
// distinguish an outage from a miss; the orchestrator treats them as fatal.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed cache from a connection URL
// (e.g. "redis://localhost:6379/0").
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

// NewRedisCacheFromClient wraps an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves an offer list by key. Returns domain.ErrCacheMiss when the
// key does not exist or has expired.
func (c *RedisCache) Get(ctx context.Context, key string) ([]domain.Offer, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			Misses.WithLabelValues("redis").Inc()
			return nil, domain.ErrCacheMiss
		}
		Errors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var offers []domain.Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		Errors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("unmarshal cache entry: %w", err)
	}

	Hits.WithLabelValues("redis").Inc()
	return offers, nil
}

// Set stores an offer list under key with the given TTL, overwriting any
// existing entry.
func (c *RedisCache) Set(ctx context.Context, key string, offers []domain.Offer, ttl time.Duration) error {
	data, err := json.Marshal(offers)
	if err != nil {
		Errors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		Errors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes a cache entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		Errors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
