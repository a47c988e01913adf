// ABOUTME: Cache abstraction for embedding vectors keyed by text hash
// ABOUTME: In-memory implementation backed by an expirable LRU with TTL
package embedding

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache stores embedding vectors keyed by normalized-text hash.
// Entries expire after the configured TTL; InvalidateAll clears everything
// (used by the "regenerate all embeddings" admin action).
type Cache interface {
	Get(ctx context.Context, textHash string) ([]float64, bool)
	Set(ctx context.Context, textHash string, vector []float64) error
	InvalidateAll(ctx context.Context) error
}

// MemoryCache is an in-process Cache backed by an expirable LRU
type MemoryCache struct {
	lru *expirable.LRU[string, []float64]
}

// NewMemoryCache creates a MemoryCache holding up to size entries for ttl
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		lru: expirable.NewLRU[string, []float64](size, nil, ttl),
	}
}

// Get returns the cached vector for textHash if present and unexpired
func (c *MemoryCache) Get(_ context.Context, textHash string) ([]float64, bool) {
	return c.lru.Get(textHash)
}

// Set stores a vector under textHash
func (c *MemoryCache) Set(_ context.Context, textHash string, vector []float64) error {
	c.lru.Add(textHash, vector)
	return nil
}

// InvalidateAll removes every cached entry
func (c *MemoryCache) InvalidateAll(_ context.Context) error {
	c.lru.Purge()
	return nil
}
