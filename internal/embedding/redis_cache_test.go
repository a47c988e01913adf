// ABOUTME: Tests for the Redis-backed embedding cache
// ABOUTME: Runs against an in-process miniredis server
package embedding

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()

	srv := miniredis.RunT(t)
	cache := NewRedisCache(srv.Addr(), 0, time.Hour)
	t.Cleanup(func() { _ = cache.Close() })

	return cache
}

func TestRedisCache_SetGet(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	vector := []float64{0.1, 0.2, 0.3}
	hash := HashText("hello world")

	if err := cache.Set(ctx, hash, vector); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := cache.Get(ctx, hash)
	if !ok {
		t.Fatal("Get returned miss for stored key")
	}

	if len(got) != len(vector) {
		t.Fatalf("vector length = %d, want %d", len(got), len(vector))
	}
	for i := range vector {
		if got[i] != vector[i] {
			t.Errorf("vector[%d] = %f, want %f", i, got[i], vector[i])
		}
	}
}

func TestRedisCache_Miss(t *testing.T) {
	cache := newTestRedisCache(t)

	if _, ok := cache.Get(context.Background(), HashText("never stored")); ok {
		t.Error("Get returned hit for missing key")
	}
}

func TestRedisCache_InvalidateAll(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		if err := cache.Set(ctx, HashText(text), []float64{1}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := cache.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll failed: %v", err)
	}

	for _, text := range []string{"one", "two", "three"} {
		if _, ok := cache.Get(ctx, HashText(text)); ok {
			t.Errorf("key for %q survived InvalidateAll", text)
		}
	}
}
