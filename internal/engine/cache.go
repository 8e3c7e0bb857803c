package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/hr-intake/internal/domain"
)

// DefaultCacheTTL bounds how long a fallback response may be replayed.
const DefaultCacheTTL = 60 * time.Second

// ResponseCache stores fallback results keyed by normalized utterance
// and language. The key deliberately ignores employee identity and
// conversation history: two employees asking the same phrased question
// inside the TTL get the same cached reply. This is a token/latency
// optimization, not a correctness feature.
type ResponseCache interface {
	Get(ctx context.Context, key string) (*domain.IntentResult, bool)
	Set(ctx context.Context, key string, result *domain.IntentResult)
}

// CacheKey normalizes an utterance/language pair into a cache key.
func CacheKey(utterance string, lang domain.Language) string {
	return strings.ToLower(strings.TrimSpace(utterance)) + "_" + string(lang)
}

type cacheEntry struct {
	result   domain.IntentResult
	storedAt time.Time
}

// MemoryCache is an expiring map with last-writer-wins semantics on key
// collision. The clock is injectable for deterministic tests.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	clock   func() time.Time
}

// NewMemoryCache builds a cache with the given TTL. A nil clock uses
// time.Now.
func NewMemoryCache(ttl time.Duration, clock func() time.Time) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns a copy of the cached result when it is younger than the TTL.
func (c *MemoryCache) Get(_ context.Context, key string) (*domain.IntentResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	result := entry.result
	return &result, true
}

// Set stores the result, evicting any expired entries opportunistically.
func (c *MemoryCache) Set(_ context.Context, key string, result *domain.IntentResult) {
	if result == nil {
		return
	}
	now := c.clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, entry := range c.entries {
		if now.Sub(entry.storedAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{result: *result, storedAt: now}
}
