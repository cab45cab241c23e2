package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrymomot/restbase/pkg/schema"
)

// Lookup selects records by field equality.
type Lookup map[string]any

// Query describes a List call. A zero Limit returns every matching record.
// OrderBy entries are field names, prefixed with "-" for descending order.
type Query struct {
	Where   map[string]any
	OrderBy []string
	Limit   int
	Offset  int
}

// Repository persists records of type T.
type Repository[T any] interface {
	// Find returns the single record matching the lookup.
	Find(ctx context.Context, lookup Lookup) (T, error)

	// List returns a page of matching records and the total number of matches.
	List(ctx context.Context, q Query) ([]T, int, error)

	// Create inserts a record built from fields and returns it.
	Create(ctx context.Context, fields map[string]any) (T, error)

	// Update overwrites the given fields of the record with primary key pk.
	Update(ctx context.Context, pk string, fields map[string]any) (T, error)

	// Delete removes the record with primary key pk.
	Delete(ctx context.Context, pk string) error
}

// Fields returns the JSON field names of T.
func Fields[T any]() []string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	names := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if name, ok := schema.JSONName(sf); ok {
			names = append(names, name)
		}
	}
	return names
}

// Order splits an ordering entry into its field and direction.
func Order(entry string) (field string, desc bool) {
	if f, ok := strings.CutPrefix(entry, "-"); ok {
		return f, true
	}
	return strings.TrimPrefix(entry, "+"), false
}

// Decode converts a field mapping into T through its JSON representation.
func Decode[T any](fields map[string]any) (T, error) {
	var out T
	data, err := json.Marshal(fields)
	if err != nil {
		return out, errors.Join(ErrDecode, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, errors.Join(ErrDecode, err)
	}
	return out, nil
}

// Normalize replaces json.Number values with int64 or float64 so drivers
// can bind them to typed columns.
func Normalize(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		return Normalize(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}

// checkFields accepts every key when known is empty.
func checkFields(known map[string]struct{}, keys ...string) error {
	if len(known) == 0 {
		return nil
	}
	for _, k := range keys {
		if _, ok := known[k]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
	}
	return nil
}

func fieldSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
