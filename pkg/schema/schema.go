package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/dmitrymomot/restbase/pkg/sanitizer"
	"github.com/dmitrymomot/restbase/pkg/validator"
)

// Schema validates an input mapping and returns the normalized mapping.
type Schema interface {
	Load(data map[string]any) (map[string]any, error)
}

// Validatable is implemented by schema types with cross-field or constraint checks.
type Validatable interface {
	Validate() error
}

// Struct is a Schema backed by the struct type T.
type Struct[T any] struct {
	fields []field
}

type field struct {
	name     string
	index    int
	required bool
}

// For builds a Schema from struct type T. It panics if T is not a struct.
func For[T any]() *Struct[T] {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		panic(fmt.Sprintf("schema: %s is not a struct", rt))
	}
	s := &Struct[T]{}
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, ok := JSONName(sf)
		if !ok {
			continue
		}
		s.fields = append(s.fields, field{
			name:     name,
			index:    i,
			required: slices.Contains(strings.Split(sf.Tag.Get("validate"), ","), "required"),
		})
	}
	return s
}

// Fields returns the JSON field names known to the schema.
func (s *Struct[T]) Fields() []string {
	names := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		names = append(names, f.name)
	}
	return names
}

// Load implements Schema.
func (s *Struct[T]) Load(data map[string]any) (map[string]any, error) {
	v, err := s.Decode(data)
	if err != nil {
		return nil, err
	}
	return Dump(v)
}

// Decode validates data and returns the populated struct.
func (s *Struct[T]) Decode(data map[string]any) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()

	var errs validator.ValidationErrors
	failed := make(map[string]bool)
	for _, f := range s.fields {
		raw, ok := data[f.name]
		if !ok || raw == nil {
			if f.required {
				errs = append(errs, requiredError(f.name))
				failed[f.name] = true
			}
			continue
		}
		if err := assign(rv.Field(f.index), raw); err != nil {
			errs = append(errs, typeError(f.name, rv.Field(f.index).Type()))
			failed[f.name] = true
		}
	}

	if err := sanitizer.SanitizeStruct(&out); err != nil {
		return out, err
	}

	if vv, ok := any(out).(Validatable); ok {
		if err := vv.Validate(); err != nil {
			ve := validator.ExtractValidationErrors(err)
			if ve == nil {
				return out, err
			}
			for _, e := range ve {
				if !failed[e.Field] {
					errs = append(errs, e)
				}
			}
		}
	}

	if len(errs) > 0 {
		return out, s.ordered(errs)
	}
	return out, nil
}

// ordered sorts errors by schema field order, keeping relative order within a field.
// Locations unknown to the schema go last.
func (s *Struct[T]) ordered(errs validator.ValidationErrors) validator.ValidationErrors {
	pos := make(map[string]int, len(s.fields))
	for i, f := range s.fields {
		pos[f.name] = i
	}
	rank := func(name string) int {
		if p, ok := pos[name]; ok {
			return p
		}
		return len(s.fields)
	}
	slices.SortStableFunc(errs, func(a, b validator.ValidationError) int {
		return rank(a.Field) - rank(b.Field)
	})
	return errs
}

func assign(dst reflect.Value, raw any) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	ptr := reflect.New(dst.Type())
	if err := json.Unmarshal(b, ptr.Interface()); err != nil {
		return err
	}
	dst.Set(ptr.Elem())
	return nil
}

func requiredError(name string) validator.ValidationError {
	return validator.ValidationError{
		Field:             name,
		Message:           "field required",
		TranslationKey:    "validation.required",
		TranslationValues: map[string]any{"field": name},
	}
}

func typeError(name string, t reflect.Type) validator.ValidationError {
	kind := typeName(t)
	return validator.ValidationError{
		Field:             name,
		Message:           "value is not a valid " + kind,
		TranslationKey:    "validation.type",
		TranslationValues: map[string]any{"field": name, "type": kind},
	}
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map:
		return "dict"
	case reflect.Struct:
		if t.String() == "time.Time" {
			return "datetime"
		}
		return "object"
	default:
		return t.Kind().String()
	}
}

// Dump converts a value to a mapping keyed by JSON field names.
// Numbers are kept as json.Number so integers survive the round trip.
func Dump(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrDump, err)
	}
	out := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, errors.Join(ErrDump, err)
	}
	return out, nil
}

// JSONName returns the JSON key of a struct field and false when the field is skipped.
func JSONName(sf reflect.StructField) (string, bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	return name, true
}
