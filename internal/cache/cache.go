// Package cache stores serialized provider responses with a time to live.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/config"
	"go.uber.org/zap"
)

// Cache is a byte-oriented key/value store with per-entry expiry
type Cache interface {
	// Get returns the stored value and true, or false on a miss or expiry
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New builds the cache selected by cfg.Driver
func New(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (Cache, error) {
	switch cfg.Driver {
	case config.CacheDriverRedis:
		c := NewRedisCache(RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := c.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("Using redis cache", zap.String("addr", cfg.RedisAddr))
		return c, nil
	default:
		logger.Info("Using in-memory cache")
		return NewMemoryCache(), nil
	}
}
