package middlewares

import (
	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/pkg/exception"
)

// QueryParams fails with exception.QueryParameterMissing for the first
// name absent from the query string. An empty value counts as present.
func QueryParams(names ...string) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			query := c.QueryParams()
			for _, name := range names {
				if !query.Has(name) {
					return exception.QueryParameterMissing(name)
				}
			}
			return next(c)
		}
	}
}

// BodyParams fails with exception.BodyParameterMissing for the first name
// absent from Context.BodyParams. A body that cannot be decoded is
// returned as is.
func BodyParams(names ...string) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			body, err := c.BodyParams()
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, ok := body[name]; !ok {
					return exception.BodyParameterMissing(name)
				}
			}
			return next(c)
		}
	}
}

// PathParams fails with exception.PathParameterMissing for the first URL
// parameter that is empty.
func PathParams(names ...string) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			for _, name := range names {
				if c.Param(name) == "" {
					return exception.PathParameterMissing(name)
				}
			}
			return next(c)
		}
	}
}
