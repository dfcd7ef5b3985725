// Package cache memoizes derived layouts per dataset version and option set.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/india-cartogram/internal/domain"
	"github.com/couchcryptid/india-cartogram/internal/observability"
)

// Builder derives a layout for one dataset version.
type Builder interface {
	Build(ds domain.Dataset, version uint64, opts domain.Options) (domain.LayoutResult, error)
}

// CachedBuilder wraps a Builder with an in-memory LRU cache. Entries are keyed
// by dataset version, so a refresh never serves a stale layout.
type CachedBuilder struct {
	inner   Builder
	cache   *lru.Cache[string, domain.LayoutResult]
	metrics *observability.Metrics
}

// NewCachedBuilder creates a cache decorator around a builder.
func NewCachedBuilder(inner Builder, maxEntries int, metrics *observability.Metrics) (*CachedBuilder, error) {
	c, err := lru.New[string, domain.LayoutResult](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create layout cache: %w", err)
	}
	return &CachedBuilder{
		inner:   inner,
		cache:   c,
		metrics: metrics,
	}, nil
}

func (c *CachedBuilder) Build(ds domain.Dataset, version uint64, opts domain.Options) (domain.LayoutResult, error) {
	key := cacheKey(version, opts)
	if layout, ok := c.cache.Get(key); ok {
		c.metrics.LayoutCache.WithLabelValues("hit").Inc()
		return layout, nil
	}
	c.metrics.LayoutCache.WithLabelValues("miss").Inc()

	layout, err := c.inner.Build(ds, version, opts)
	if err != nil {
		// Failures are not cached so a corrected request is rebuilt.
		return layout, err
	}
	c.cache.Add(key, layout)
	return layout, nil
}

// Len reports how many layouts are cached.
func (c *CachedBuilder) Len() int {
	return c.cache.Len()
}

func cacheKey(version uint64, opts domain.Options) string {
	return fmt.Sprintf("v%d|%s", version, opts.CacheKey())
}
