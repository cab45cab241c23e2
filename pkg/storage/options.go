package storage

import "time"

// Option configures Put.
type Option func(*putOptions)

type putOptions struct {
	key         string
	prefix      string
	contentType string
}

// WithKey stores the object under key instead of a generated one.
func WithKey(key string) Option {
	return func(o *putOptions) {
		o.key = key
	}
}

// WithPrefix puts the generated key under prefix, e.g. "covers/{uuid}.png".
func WithPrefix(prefix string) Option {
	return func(o *putOptions) {
		o.prefix = prefix
	}
}

// WithContentType skips content sniffing.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

// URLOption configures URL.
type URLOption func(*urlOptions)

type urlOptions struct {
	downloadName string
	expiry       time.Duration
}

// WithExpiry sets the lifetime of a signed URL. Default: 15 minutes.
func WithExpiry(d time.Duration) URLOption {
	return func(o *urlOptions) {
		o.expiry = d
	}
}

// WithDownload makes the signed URL serve the object as an attachment named filename.
func WithDownload(filename string) URLOption {
	return func(o *urlOptions) {
		o.downloadName = filename
	}
}

// ObjectKey returns the key Put stores under: the WithKey value, or a
// generated key under the WithPrefix prefix.
func ObjectKey(contentType string, opts ...Option) string {
	o := applyPut(opts)
	if o.key != "" {
		return o.key
	}
	return NewKey(o.prefix, contentType)
}

func applyPut(opts []Option) *putOptions {
	o := &putOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func applyURL(opts []URLOption) *urlOptions {
	o := &urlOptions{expiry: DefaultURLExpiry}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
