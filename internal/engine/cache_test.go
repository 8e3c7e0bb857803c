package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hr-intake/internal/domain"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCacheKeyNormalization(t *testing.T) {
	assert.Equal(t, "hello_EN", CacheKey("  Hello  ", domain.LanguageEN))
	assert.Equal(t, "hello_FR", CacheKey("HELLO", domain.LanguageFR))
	// Same utterance, different language: distinct entries.
	assert.NotEqual(t, CacheKey("hello", domain.LanguageEN), CacheKey("hello", domain.LanguageFR))
}

func TestMemoryCacheHitWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC)}
	cache := NewMemoryCache(DefaultCacheTTL, clock.Now)
	ctx := context.Background()

	result := &domain.IntentResult{Intent: domain.IntentUnknown, Response: "cached reply"}
	cache.Set(ctx, "key_EN", result)

	clock.Advance(59 * time.Second)
	got, ok := cache.Get(ctx, "key_EN")
	require.True(t, ok)
	assert.Equal(t, "cached reply", got.Response)
}

func TestMemoryCacheExpiresAtTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC)}
	cache := NewMemoryCache(DefaultCacheTTL, clock.Now)
	ctx := context.Background()

	cache.Set(ctx, "key_EN", &domain.IntentResult{Response: "stale"})

	clock.Advance(60 * time.Second)
	_, ok := cache.Get(ctx, "key_EN")
	assert.False(t, ok)
}

func TestMemoryCacheLastWriterWins(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC)}
	cache := NewMemoryCache(DefaultCacheTTL, clock.Now)
	ctx := context.Background()

	cache.Set(ctx, "key_EN", &domain.IntentResult{Response: "first"})
	cache.Set(ctx, "key_EN", &domain.IntentResult{Response: "second"})

	got, ok := cache.Get(ctx, "key_EN")
	require.True(t, ok)
	assert.Equal(t, "second", got.Response)
}

func TestMemoryCacheReturnsCopy(t *testing.T) {
	cache := NewMemoryCache(DefaultCacheTTL, nil)
	ctx := context.Background()

	cache.Set(ctx, "key_EN", &domain.IntentResult{Response: "original"})
	got, ok := cache.Get(ctx, "key_EN")
	require.True(t, ok)
	got.Response = "mutated"

	again, ok := cache.Get(ctx, "key_EN")
	require.True(t, ok)
	assert.Equal(t, "original", again.Response)
}
