package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-intake/internal/domain"
)

const redisKeyPrefix = "hrintake:fallback:"

// RedisCache shares fallback responses across engine instances. Entry
// expiry is delegated to Redis via SET EX.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache wraps the given client as a ResponseCache.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*domain.IntentResult, bool) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("redis cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var result domain.IntentResult
	if err := json.Unmarshal(payload, &result); err != nil {
		c.logger.Warn("redis cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, key string, result *domain.IntentResult) {
	if result == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("redis cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("redis cache set failed", zap.Error(err))
	}
}
