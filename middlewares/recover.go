package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/restbase/internal"
)

// DefaultStackSize bounds captured stacks, in bytes.
const DefaultStackSize = 4096

type RecoverConfig struct {
	StackSize    int
	DisableStack bool
}

type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize bounds the captured stack. Non-positive sizes keep
// DefaultStackSize.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		if size > 0 {
			cfg.StackSize = size
		}
	}
}

func WithRecoverDisableStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisableStack = true
	}
}

// Recover turns a handler panic into a *PanicError. It does not log or
// respond: Exception, placed before it, logs the stack and answers with an
// uncaught-exception envelope.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{StackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}
	stackSize := cfg.StackSize
	if cfg.DisableStack {
		stackSize = 0
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = newPanicError(r, stackSize)
				}
			}()
			return next(c)
		}
	}
}

// newPanicError must be called from the deferred function of the panicking
// goroutine. A zero stackSize skips the stack.
func newPanicError(v any, stackSize int) *PanicError {
	pe := &PanicError{Value: v}
	if stackSize > 0 {
		buf := make([]byte, stackSize)
		pe.Stack = buf[:runtime.Stack(buf, false)]
	}
	return pe
}
