// ABOUTME: Redis-backed embedding cache for deployments with shared state
// ABOUTME: Stores JSON-encoded records under a prefixed key with TTL expiry
package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/sitechat/internal/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "sitechat:embedding:"

// RedisCache is a Cache backed by Redis with server-side TTL expiry
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache against the given address and database
func NewRedisCache(addr string, db int, ttl time.Duration) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached vector for textHash if present and unexpired
func (c *RedisCache) Get(ctx context.Context, textHash string) ([]float64, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+textHash).Bytes()
	if err != nil {
		return nil, false
	}

	var record models.EmbeddingRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false
	}

	return record.Vector, true
}

// Set stores a vector under textHash with the cache TTL
func (c *RedisCache) Set(ctx context.Context, textHash string, vector []float64) error {
	record := models.EmbeddingRecord{
		TextHash:  textHash,
		Vector:    vector,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling embedding record: %w", err)
	}

	if err := c.client.Set(ctx, redisKeyPrefix+textHash, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing embedding to redis: %w", err)
	}

	return nil
}

// InvalidateAll removes every cached embedding key
func (c *RedisCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scanning embedding keys: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("deleting embedding keys: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close releases the underlying Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
