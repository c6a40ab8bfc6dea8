// Package cachemanager provides the keyed in-memory store that holds the
// current generation of every open document.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values by key. Set replaces a value as a whole, so a
// concurrent Get observes either the previous or the new value.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Keys(ctx context.Context) []K
	Len(ctx context.Context) int
	Flush(ctx context.Context) error
}
