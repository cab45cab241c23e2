package cache

import "time"

// DefaultTTL applies to Set calls with a non-positive ttl.
const DefaultTTL = 5 * time.Minute

type options struct {
	ttl        time.Duration
	prefix     string
	maxEntries int
}

// Option configures a cache backend. Options a backend has no use for are
// ignored.
type Option func(*options)

func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithPrefix namespaces Redis keys. Caches sharing a database need distinct
// prefixes since Clear acts on the whole prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithMaxEntries bounds the memory cache. Zero means unbounded.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = max(n, 0)
	}
}

func newOptions(opts []Option) options {
	o := options{ttl: DefaultTTL, prefix: "restbase"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
