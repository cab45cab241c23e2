package cache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache holds values of one type. Set with a non-positive ttl uses the
// backend's default. Clear drops every entry.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Clear(ctx context.Context) error
}

var flights singleflight.Group

// Load returns the cached value for key, calling fn on a miss. Concurrent
// misses of one cache and key share a single fn call. Errors from fn are
// returned unchanged and nothing is stored. A failing Set is ignored: the
// loaded value is still returned.
func Load[V any](ctx context.Context, c Cache[V], key string, ttl time.Duration, fn func(context.Context) (V, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	v, err, _ := flights.Do(fmt.Sprintf("%p|%s", c, key), func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
