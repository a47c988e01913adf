// ABOUTME: Cache-backed embedder avoiding redundant provider calls for identical text
// ABOUTME: Normalizes, hashes, checks the cache, and only then calls the provider
package embedding

import (
	"context"
	"errors"

	"github.com/harper/sitechat/internal/llm"
)

// ErrEmptyText is returned when the input normalizes to nothing embeddable
var ErrEmptyText = errors.New("empty text after normalization")

// Embedder wraps an EmbeddingProvider with a content-addressed cache
type Embedder struct {
	provider llm.EmbeddingProvider
	cache    Cache
}

// NewEmbedder creates an Embedder over the given provider and cache
func NewEmbedder(provider llm.EmbeddingProvider, cache Cache) *Embedder {
	return &Embedder{provider: provider, cache: cache}
}

// GetOrCreate returns the embedding for text, serving from cache when the
// normalized text has been embedded within the TTL. Provider errors
// propagate uncached so the next call retries.
func (e *Embedder) GetOrCreate(ctx context.Context, text string) ([]float64, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return nil, ErrEmptyText
	}

	hash := HashText(normalized)

	if vector, ok := e.cache.Get(ctx, hash); ok {
		return vector, nil
	}

	vector, err := e.provider.Embed(ctx, normalized)
	if err != nil {
		return nil, err
	}

	// The vector is valid even if the cache write fails
	_ = e.cache.Set(ctx, hash, vector)

	return vector, nil
}

// InvalidateAll clears the cache so every text re-embeds on next use
func (e *Embedder) InvalidateAll(ctx context.Context) error {
	return e.cache.InvalidateAll(ctx)
}

// Dimension returns the provider's vector dimension
func (e *Embedder) Dimension() int {
	return e.provider.Dimension()
}
