package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

const (
	CacheKeyTours       = "public:tours"
	CacheKeySiteContent = "public:site-content"

	DefaultCacheTTL = 5 * time.Minute
)

// readCache fronts public reads. A nil cache disables it; cache failures
// are logged and otherwise ignored.
type readCache struct {
	cache  ports.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

func (c readCache) load(ctx context.Context, key string, dst any, fetch func() error) error {
	if c.cache != nil {
		hit, err := c.cache.Get(ctx, key, dst)
		if err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		} else if hit {
			return nil
		}
	}
	if err := fetch(); err != nil {
		return err
	}
	if c.cache != nil {
		ttl := c.ttl
		if ttl <= 0 {
			ttl = DefaultCacheTTL
		}
		if err := c.cache.Set(ctx, key, dst, ttl); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return nil
}

func (c readCache) invalidate(ctx context.Context, keys ...string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Del(ctx, keys...); err != nil {
		c.logger.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
