// Package cachemanager provides small generic caches keyed by string-like
// keys, used to memoize pure computations such as tokenization.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is the storage side of a cache.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
	Len() int
}
