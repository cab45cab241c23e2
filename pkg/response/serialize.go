package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"slices"
)

// Record is a structured value flattened to a field mapping.
type Record interface {
	Fields() map[string]any
}

// Collection is a set of records, such as a query result.
type Collection interface {
	Records() []Record
}

// Serialize converts v into a JSON-friendly value.
//
//   - []byte and json.RawMessage are decoded as JSON text; invalid JSON falls back to the string form
//   - nil, strings, booleans, numbers and map[string]any pass through unchanged
//   - a Record becomes its field mapping
//   - a Collection becomes a slice of field mappings
//   - any other slice or array is serialized element by element
//   - everything else passes through unchanged
func Serialize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case json.RawMessage:
		return decodeJSON(x)
	case []byte:
		return decodeJSON(x)
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		map[string]any:
		return x
	case Record:
		return x.Fields()
	case Collection:
		records := x.Records()
		out := make([]any, 0, len(records))
		for _, r := range records {
			out = append(out, r.Fields())
		}
		return out
	case []any:
		out := make([]any, 0, len(x))
		for _, item := range x {
			out = append(out, Serialize(item))
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}
		}
		out := make([]any, 0, rv.Len())
		for i := range rv.Len() {
			out = append(out, Serialize(rv.Index(i).Interface()))
		}
		return out
	default:
		return v
	}
}

func decodeJSON(b []byte) any {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return string(b)
	}
	// Anything but trailing whitespace makes b more than one value.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return string(b)
	}
	return out
}

// FieldOption narrows the fields of a serialized record.
type FieldOption func(*fieldSelection)

type fieldSelection struct {
	only    []string
	exclude []string
}

// Only keeps the listed fields. An empty list keeps everything.
func Only(fields ...string) FieldOption {
	return func(s *fieldSelection) {
		s.only = append(s.only, fields...)
	}
}

// Exclude drops the listed fields.
func Exclude(fields ...string) FieldOption {
	return func(s *fieldSelection) {
		s.exclude = append(s.exclude, fields...)
	}
}

// SerializeRecord flattens r honoring Only and Exclude.
func SerializeRecord(r Record, opts ...FieldOption) map[string]any {
	var sel fieldSelection
	for _, opt := range opts {
		opt(&sel)
	}

	fields := r.Fields()
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if len(sel.only) > 0 && !slices.Contains(sel.only, k) {
			continue
		}
		if slices.Contains(sel.exclude, k) {
			continue
		}
		out[k] = v
	}
	return out
}
