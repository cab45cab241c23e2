package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/restbase/pkg/cache"
)

// Page is a cached List result.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Cached is a read-through decorator over a Repository. Find and List
// results are kept in the caches for ttl; any write clears both.
//
// Keys carry a generation that every write advances, so a load that
// started before a write stores its result under a key no later read
// uses. The generation is process-local.
type Cached[T any] struct {
	next    Repository[T]
	records cache.Cache[T]
	pages   cache.Cache[Page[T]]
	ttl     time.Duration
	logger  *slog.Logger
	gen     atomic.Uint64
}

// CachedOption configures a Cached repository.
type CachedOption func(*cachedOptions)

type cachedOptions struct {
	logger *slog.Logger
}

// WithCacheLogger sets the logger for cache invalidation failures.
// Default: slog.Default().
func WithCacheLogger(l *slog.Logger) CachedOption {
	return func(o *cachedOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewCached wraps next. The two caches should be dedicated to this
// repository since writes clear them entirely.
func NewCached[T any](next Repository[T], records cache.Cache[T], pages cache.Cache[Page[T]], ttl time.Duration, opts ...CachedOption) *Cached[T] {
	o := cachedOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cached[T]{next: next, records: records, pages: pages, ttl: ttl, logger: o.logger}
}

func (c *Cached[T]) Find(ctx context.Context, lookup Lookup) (T, error) {
	key, err := c.key("find", lookup)
	if err != nil {
		return c.next.Find(ctx, lookup)
	}
	return cache.Load(ctx, c.records, key, c.ttl, func(ctx context.Context) (T, error) {
		return c.next.Find(ctx, lookup)
	})
}

func (c *Cached[T]) List(ctx context.Context, q Query) ([]T, int, error) {
	key, err := c.key("list", q)
	if err != nil {
		return c.next.List(ctx, q)
	}
	page, err := cache.Load(ctx, c.pages, key, c.ttl, func(ctx context.Context) (Page[T], error) {
		items, total, err := c.next.List(ctx, q)
		return Page[T]{Items: items, Total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (c *Cached[T]) Create(ctx context.Context, fields map[string]any) (T, error) {
	rec, err := c.next.Create(ctx, fields)
	if err != nil {
		return rec, err
	}
	c.invalidate(ctx)
	return rec, nil
}

func (c *Cached[T]) Update(ctx context.Context, pk string, fields map[string]any) (T, error) {
	rec, err := c.next.Update(ctx, pk, fields)
	if err != nil {
		return rec, err
	}
	c.invalidate(ctx)
	return rec, nil
}

func (c *Cached[T]) Delete(ctx context.Context, pk string) error {
	if err := c.next.Delete(ctx, pk); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// invalidate runs after a committed write, so a failing Clear is logged
// rather than reported to the caller. Advancing the generation already
// hides the old entries from this process.
func (c *Cached[T]) invalidate(ctx context.Context) {
	c.gen.Add(1)
	if err := errors.Join(c.records.Clear(ctx), c.pages.Clear(ctx)); err != nil {
		c.logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("component", "store"),
			slog.String("error", err.Error()),
		)
	}
}

// key encodes v as JSON; map keys are sorted by encoding/json so equal
// lookups share a key.
func (c *Cached[T]) key(op string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(c.gen.Load(), 10) + ":" + op + ":" + string(data), nil
}
