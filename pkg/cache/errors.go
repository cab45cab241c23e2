package cache

import "errors"

var (
	ErrNotFound  = errors.New("cache: entry not found")
	ErrEncode    = errors.New("cache: failed to encode value")
	ErrDecode    = errors.New("cache: failed to decode value")
	ErrNoBackend = errors.New("cache: nil redis client")
)
