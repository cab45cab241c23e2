package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/restbase/internal"
)

const DefaultTimeout = 30 * time.Second

type TimeoutConfig struct {
	Timeout time.Duration
	// Skip exempts requests, e.g. file uploads, from the deadline.
	Skip func(internal.Context) bool
}

type TimeoutOption func(*TimeoutConfig)

// WithTimeoutSkip exempts the requests fn reports true for.
func WithTimeoutSkip(fn func(internal.Context) bool) TimeoutOption {
	return func(cfg *TimeoutConfig) {
		cfg.Skip = fn
	}
}

// Timeout bounds handler run time. Past the deadline it returns a
// *TimeoutError, which Exception reports as an uncaught exception. The
// handler runs on its own goroutine with a detached Context: the request
// context is cancelled so repositories and clients given c stop early,
// and once the deadline passes its writes fail with http.ErrHandlerTimeout
// instead of reaching the client. Panics in that goroutine come back as a
// *PanicError. A non-positive timeout uses DefaultTimeout.
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Middleware {
	cfg := &TimeoutConfig{Timeout: timeout}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if cfg.Skip != nil && cfg.Skip(c) {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Context(), cfg.Timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			hc, cut := internal.Detach(c)

			done := make(chan error, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						done <- newPanicError(r, DefaultStackSize)
					}
				}()
				done <- next(hc)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				cut()
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					c.LogWarn("request timeout", "timeout", cfg.Timeout.String())
					return &TimeoutError{Duration: cfg.Timeout}
				}
				return ctx.Err()
			}
		}
	}
}
