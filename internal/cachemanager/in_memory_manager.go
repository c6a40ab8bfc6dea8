package cachemanager

import (
	"context"
	"slices"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/impexls/internal/log"
)

// NoExpiration keeps an entry until it is deleted. Open documents use it:
// they live exactly as long as the editor buffer.
const NoExpiration = gocache.NoExpiration

// DefaultCleanupInterval is how often expired entries are purged.
const DefaultCleanupInterval = 30 * time.Minute

// NewInMemoryCacheManager initializes a go-cache backed manager.
// useCase names the cache in log output.
func NewInMemoryCacheManager[K ~string, V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// InMemoryCacheManager is the go-cache implementation of CacheManager.
type InMemoryCacheManager[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache
}

// Get retrieves an item from the cache by its key.
func (c *InMemoryCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(string(key))
	if !found {
		return zeroValue, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "cache", c.useCase, "key", key)
		return zeroValue, false
	}

	return v, true
}

// Set stores value under key, replacing any previous value.
func (c *InMemoryCacheManager[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	c.cache.Set(string(key), value, ttl)
}

// Delete removes the given keys. Missing keys are ignored.
func (c *InMemoryCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}
	if len(keys) > 0 {
		log.Debug(log.CatCache, "deleted entries", "cache", c.useCase, "count", len(keys))
	}
	return nil
}

// Keys returns the keys of all unexpired entries in sorted order.
func (c *InMemoryCacheManager[K, V]) Keys(ctx context.Context) []K {
	items := c.cache.Items()
	keys := make([]K, 0, len(items))
	for k := range items {
		keys = append(keys, K(k))
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of entries, including expired ones not yet purged.
func (c *InMemoryCacheManager[K, V]) Len(ctx context.Context) int {
	return c.cache.ItemCount()
}

// Flush removes every entry.
func (c *InMemoryCacheManager[K, V]) Flush(ctx context.Context) error {
	c.cache.Flush()
	log.Debug(log.CatCache, "flushed", "cache", c.useCase)
	return nil
}
