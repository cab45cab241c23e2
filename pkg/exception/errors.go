package exception

import (
	"errors"
	"maps"

	"github.com/dmitrymomot/restbase/pkg/status"
)

// Error is a failure tagged with a status code.
// The rendered message is the code template interpolated with Context.
type Error struct {
	Err     error
	Context map[string]string
	Code    status.Code
}

// New creates an Error for the given code and context.
// The context must supply every placeholder of the code template.
func New(code status.Code, ctx map[string]string) *Error {
	return &Error{Code: code, Context: maps.Clone(ctx)}
}

// Error renders the code template with the error context.
func (e *Error) Error() string {
	return e.Code.Render(e.Context)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Value returns the numeric status code.
func (e *Error) Value() int {
	return e.Code.Value
}

// Wrap attaches an underlying cause. The receiver is not modified.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Context = maps.Clone(e.Context)
	cp.Err = err
	return &cp
}

// QueryParameterMissing reports a required query string key that is absent.
func QueryParameterMissing(name string) *Error {
	return New(status.QueryParamMissing, map[string]string{"param": name})
}

// BodyParameterMissing reports a required body key that is absent.
func BodyParameterMissing(name string) *Error {
	return New(status.BodyParamMissing, map[string]string{"param": name})
}

// PathParameterMissing reports a required URL path parameter that is empty.
func PathParameterMissing(name string) *Error {
	return New(status.PathParamMissing, map[string]string{"param": name})
}

// LoginRequired reports a missing or anonymous identity.
func LoginRequired() *Error {
	return New(status.LoginRequired, nil)
}

// PermissionDenied reports an authenticated identity lacking a privilege.
func PermissionDenied(reason string) *Error {
	return New(status.PermissionDenied, map[string]string{"reason": reason})
}

// Uncaught wraps an arbitrary error into the uncaught exception code.
func Uncaught(err error) *Error {
	msg := "<nil>"
	if err != nil {
		msg = err.Error()
	}
	return New(status.UncaughtException, map[string]string{"msg": msg}).Wrap(err)
}

// As extracts an *Error from the error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether the error chain contains an *Error with the given code.
func Is(err error, code status.Code) bool {
	e, ok := As(err)
	return ok && e.Code.Value == code.Value
}
