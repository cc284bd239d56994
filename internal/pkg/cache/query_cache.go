package cache

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-checkpoint/internal/app/observability/metrics"
)

// CacheMetrics tracks cache performance
type CacheMetrics struct {
	Hits          int64
	Misses        int64
	Sets          int64
	Invalidations int64
}

// QueryCache holds read-mostly copies of backend records keyed by query.
// Mutations invalidate keys so the next read refetches.
type QueryCache struct {
	store  *gocache.Cache
	group  singleflight.Group
	name   string
	logger *zap.Logger

	// generation is bumped by every invalidation; a load that started under an
	// older generation does not populate the cache.
	generation atomic.Uint64

	hits, misses, sets, invalidations atomic.Int64
}

// New creates a query cache whose entries expire after ttl.
func New(ttl time.Duration, name string, logger *zap.Logger) *QueryCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	cleanup := ttl * 2
	if ttl <= 0 {
		cleanup = time.Minute
	}
	return &QueryCache{
		store:  gocache.New(ttl, cleanup),
		name:   name,
		logger: logger,
	}
}

// Fetch returns the cached value for key or runs load, coalescing concurrent misses.
func Fetch[T any](ctx context.Context, c *QueryCache, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.store.Get(key); ok {
		if typed, ok := v.(T); ok {
			c.hits.Add(1)
			c.record(ctx, "hit")
			c.logger.Debug("Cache hit", zap.String("cache", c.name), zap.String("key", key))
			return typed, nil
		}
	}
	c.misses.Add(1)
	c.record(ctx, "miss")
	c.logger.Debug("Cache miss", zap.String("cache", c.name), zap.String("key", key))

	// The load is shared, so it must not die with whichever caller started it.
	// Each caller still stops waiting when its own ctx ends. Flights are keyed
	// by generation so a caller never joins a load started before an invalidation.
	gen := c.generation.Load()
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.FormatUint(gen, 10)+"|"+key, func() (interface{}, error) {
		value, err := load(loadCtx)
		if err != nil {
			return value, err
		}
		if c.generation.Load() == gen {
			c.store.SetDefault(key, value)
			c.sets.Add(1)
		}
		return value, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		typed, _ := res.Val.(T)
		return typed, nil
	}
}

func (c *QueryCache) record(ctx context.Context, result string) {
	metrics.Get().CacheLookupsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache", c.name),
		attribute.String("result", result),
	))
}

// Invalidate drops the given keys.
func (c *QueryCache) Invalidate(keys ...string) {
	c.generation.Add(1)
	for _, key := range keys {
		c.store.Delete(key)
		c.invalidations.Add(1)
	}
	c.logger.Debug("Cache invalidate", zap.String("cache", c.name), zap.Strings("keys", keys))
}

// InvalidatePrefix drops every key starting with prefix.
func (c *QueryCache) InvalidatePrefix(prefix string) {
	c.generation.Add(1)
	dropped := 0
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
			dropped++
		}
	}
	c.invalidations.Add(int64(dropped))
	c.logger.Debug("Cache invalidate prefix",
		zap.String("cache", c.name),
		zap.String("prefix", prefix),
		zap.Int("dropped", dropped),
	)
}

// Clear removes all items from the cache
func (c *QueryCache) Clear() {
	c.generation.Add(1)
	c.store.Flush()
	c.logger.Info("Cache cleared", zap.String("cache", c.name))
}

// Size returns the number of items in the cache
func (c *QueryCache) Size() int {
	return c.store.ItemCount()
}

// GetMetrics returns current cache metrics
func (c *QueryCache) GetMetrics() CacheMetrics {
	return CacheMetrics{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Sets:          c.sets.Load(),
		Invalidations: c.invalidations.Load(),
	}
}
