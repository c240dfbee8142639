// Package cache provides a bounded, TTL-expiring memoizing cache with
// single-flight loading.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Loader caches values by string key. Concurrent GetOrLoad calls for the same
// uncached key collapse into a single invocation of the load function; every
// caller receives that invocation's value or error.
type Loader[V any] struct {
	lru   *expirable.LRU[string, V]
	group singleflight.Group
}

// NewLoader creates a Loader holding at most capacity entries, each expiring
// after ttl.
func NewLoader[V any](capacity int, ttl time.Duration) *Loader[V] {
	return &Loader[V]{
		lru: expirable.NewLRU[string, V](capacity, nil, ttl),
	}
}

// GetOrLoad returns the cached value for key, loading it once if absent.
// Only successful loads are cached, so a failed key is loaded again on the
// next call.
func (l *Loader[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if value, ok := l.lru.Get(key); ok {
		return value, nil
	}

	value, err, _ := l.group.Do(key, func() (any, error) {
		// A concurrent caller may have populated the cache between the
		// lookup above and acquiring the flight.
		if value, ok := l.lru.Get(key); ok {
			return value, nil
		}

		loaded, err := load()
		if err != nil {
			return nil, err
		}
		l.lru.Add(key, loaded)
		return loaded, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return value.(V), nil
}

// Len returns the number of cached entries.
func (l *Loader[V]) Len() int {
	return l.lru.Len()
}
