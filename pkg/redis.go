package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/learning-trails-service/internal/cache"
	"github.com/SAP-F-2025/learning-trails-service/internal/config"
	"github.com/SAP-F-2025/learning-trails-service/internal/utils"
	"github.com/redis/go-redis/v9"
)

func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return client, nil
}

// NewCache returns a Redis-backed cache, or a noop cache when CACHE_TTL is 0.
// The returned close func is always safe to call.
func NewCache(ctx context.Context, cfg *config.Config, logger utils.Logger) (cache.CacheService, func() error, error) {
	if cfg.CacheTTL <= 0 {
		logger.Warn("CACHE_TTL is 0, caching disabled")
		return cache.NewNoopCache(), func() error { return nil }, nil
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisCache(client, logger, cfg.CacheTTL), client.Close, nil
}
