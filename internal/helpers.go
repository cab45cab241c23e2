package internal

import (
	"fmt"
	"reflect"
	"strconv"
)

// Scalar is a type a path or query parameter can be parsed into.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ParseScalar parses raw into T. Named types are parsed by their kind.
func ParseScalar[T Scalar](raw string) (T, error) {
	var out T
	v := reflect.ValueOf(&out).Elem()
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return out, fmt.Errorf("parse %q as %s: %w", raw, v.Type(), err)
		}
		v.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, fmt.Errorf("parse %q as %s: %w", raw, v.Type(), err)
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, fmt.Errorf("parse %q as %s: %w", raw, v.Type(), err)
		}
		v.SetBool(b)
	}
	return out, nil
}

// ContextValue returns the request-scoped value under key, or the zero T.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// Param parses a URL parameter. Missing or malformed values give the zero T.
func Param[T Scalar](c Context, name string) T {
	v, _ := ParseScalar[T](c.Param(name))
	return v
}

// Query parses a query parameter. Missing or malformed values give the zero T.
func Query[T Scalar](c Context, name string) T {
	v, _ := ParseScalar[T](c.Query(name))
	return v
}

// QueryDefault parses a query parameter, falling back to defaultValue when
// it is empty or malformed.
func QueryDefault[T Scalar](c Context, name string, defaultValue T) T {
	v, ok, err := LookupQuery[T](c, name)
	if !ok || err != nil {
		return defaultValue
	}
	return v
}

// LookupQuery parses a query parameter and reports whether it was sent
// with a non-empty value.
func LookupQuery[T Scalar](c Context, name string) (T, bool, error) {
	raw := c.Query(name)
	if raw == "" {
		var zero T
		return zero, false, nil
	}
	v, err := ParseScalar[T](raw)
	return v, true, err
}
