// Package refcache holds rarely-changing reference data in memory.
//
// A Value is loaded on first use, refreshed lazily by the first read after its
// TTL expires, and keeps serving the previous value when a refresh fails. The
// current value is swapped atomically, so readers see either the old or the new
// value in full.
package refcache

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadTimeout bounds a single load. Loads are detached from the caller's
// cancellation because every concurrent reader waits on the same load.
const LoadTimeout = 10 * time.Second

// Loader fetches a fresh copy of the cached value.
type Loader[T any] func(ctx context.Context) (T, error)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Value is a single cached value with a fixed TTL.
type Value[T any] struct {
	ttl     time.Duration
	load    Loader[T]
	now     func() time.Time
	current atomic.Pointer[entry[T]]
	group   singleflight.Group
}

// New creates an empty Value. Nothing is loaded until the first Get.
func New[T any](ttl time.Duration, load Loader[T]) *Value[T] {
	return &Value[T]{
		ttl:  ttl,
		load: load,
		now:  time.Now,
	}
}

// Get returns the cached value, refreshing it when expired. Concurrent
// refreshes are collapsed into one load. If the load fails and a previous value
// exists, the previous value is returned without an error.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	cached := v.current.Load()
	if cached != nil && v.now().Before(cached.expiresAt) {
		return cached.value, nil
	}

	res, err, _ := v.group.Do("refresh", func() (interface{}, error) {
		if e := v.current.Load(); e != nil && v.now().Before(e.expiresAt) {
			return e, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()
		value, err := v.load(loadCtx)
		if err != nil {
			return nil, err
		}
		fresh := &entry[T]{value: value, expiresAt: v.now().Add(v.ttl)}
		v.current.Store(fresh)
		return fresh, nil
	})
	if err != nil {
		if cached != nil {
			return cached.value, nil
		}
		var zero T
		return zero, err
	}
	return res.(*entry[T]).value, nil
}

// Invalidate forces the next Get to reload. The stale value is kept as fallback.
func (v *Value[T]) Invalidate() {
	if e := v.current.Load(); e != nil {
		v.current.Store(&entry[T]{value: e.value})
	}
}
