package middlewares

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// PanicError is a panic caught by Recover. Exception answers it with an
// uncaught-exception envelope and logs Stack.
type PanicError struct {
	Value any
	Stack []byte // nil when stack capture is disabled
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// TimeoutError is returned by Timeout when a handler outlives its deadline.
// It matches context.DeadlineExceeded.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

func (e *TimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}

// AsPanicError finds a PanicError in err's chain.
func AsPanicError(err error) (*PanicError, bool) {
	return as[*PanicError](err)
}

// AsTimeoutError finds a TimeoutError in err's chain.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	return as[*TimeoutError](err)
}

func as[E error](err error) (E, bool) {
	var target E
	ok := errors.As(err, &target)
	return target, ok
}
