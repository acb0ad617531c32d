package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/transaction-dashboard/internal/config"
	"github.com/nimasrn/transaction-dashboard/pkg/redis"
)

const generationKey = "agg:generation"

// AggregateCache stores per-month aggregate results in redis. Keys embed a
// generation number; bumping it with Invalidate orphans every cached entry,
// which then expires through its TTL.
type AggregateCache struct {
	redis redis.RedisAdapter
	ttl   time.Duration
}

func NewAggregateCache(adapter redis.RedisAdapter, ttl time.Duration) *AggregateCache {
	return &AggregateCache{
		redis: adapter,
		ttl:   ttl,
	}
}

// Get resolves the entry key of kind/month under the current generation and
// decodes a cached value into dst, reporting whether it was present. The
// returned key is what Set must be given, so a value computed before an
// Invalidate lands under the old generation and is never served. The key is
// empty when the generation could not be read.
func (c *AggregateCache) Get(kind string, month int, dst any) (string, bool, error) {
	key, err := c.key(kind, month)
	if err != nil {
		return "", false, err
	}
	b, err := c.redis.Get(key)
	if errors.Is(err, redis.NilError) {
		return key, false, nil
	}
	if err != nil {
		return key, false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return key, false, fmt.Errorf("decode cached %s: %w", kind, err)
	}
	return key, true, nil
}

// Set stores v under a key previously returned by Get.
func (c *AggregateCache) Set(key string, v any) error {
	if key == "" {
		return errors.New("empty cache key")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.redis.Set(key, b, c.ttl)
}

func (c *AggregateCache) Invalidate() error {
	_, err := c.redis.Incr(generationKey)
	return err
}

func (c *AggregateCache) key(kind string, month int) (string, error) {
	gen, err := c.redis.GetInt(generationKey)
	if err != nil {
		return "", fmt.Errorf("read cache generation: %w", err)
	}
	return fmt.Sprintf("agg:%d:%s:%d", gen, kind, month), nil
}

func (c *AggregateCache) Ping(ctx context.Context) error {
	return c.redis.Client().Ping(ctx).Err()
}

// FromConfig connects the aggregate cache, or returns nil when no redis
// address is configured.
func FromConfig(cfg *config.Config) (*AggregateCache, error) {
	if !cfg.CacheEnabled() {
		return nil, nil
	}
	adapter, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{cfg.RedisAddr},
		ClientName: cfg.AppName,
		DB:         cfg.RedisDatabase,
		Username:   cfg.RedisUsername,
		Password:   cfg.RedisPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return NewAggregateCache(adapter, cfg.CacheTTL), nil
}
