package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache of JSON-encoded values. Keys carry a generation number
// stored under "<prefix>:gen"; Clear bumps it, so stale entries are never
// read again and age out through their TTL.
type Redis[V any] struct {
	client redis.UniversalClient
	opts   options
}

var _ Cache[struct{}] = (*Redis[struct{}])(nil)

func NewRedis[V any](client redis.UniversalClient, opts ...Option) *Redis[V] {
	return &Redis[V]{client: client, opts: newOptions(opts)}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	k, err := r.key(ctx, key)
	if err != nil {
		return zero, err
	}
	data, err := r.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, err
	}

	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, errors.Join(ErrDecode, err)
	}
	return v, nil
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.opts.ttl
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}
	k, err := r.key(ctx, key)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, k, data, ttl).Err()
}

func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.client == nil {
		return ErrNoBackend
	}
	return r.client.Incr(ctx, r.genKey()).Err()
}

func (r *Redis[V]) genKey() string {
	return r.opts.prefix + ":gen"
}

func (r *Redis[V]) key(ctx context.Context, key string) (string, error) {
	if r.client == nil {
		return "", ErrNoBackend
	}
	gen, err := r.client.Get(ctx, r.genKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", r.opts.prefix, gen, key), nil
}
