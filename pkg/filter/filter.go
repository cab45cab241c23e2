package filter

import (
	"fmt"
	"maps"
	"net/http"
	"reflect"
	"slices"

	"github.com/dmitrymomot/restbase/pkg/schema"
)

// Request is the subset of the request context a backend reads from.
type Request interface {
	Request() *http.Request
	BodyParams() (map[string]any, error)
}

// Model reports the field names a resource can be filtered by.
type Model interface {
	FieldNames() []string
}

// Backend produces the filter mapping of a request.
type Backend interface {
	// Fields returns the allow-list.
	Fields() []string
	// Params returns every raw parameter of the request.
	Params(c Request) (map[string]any, error)
	// Filter returns the raw parameters restricted to the allow-list.
	Filter(c Request) (map[string]any, error)
}

// Option configures a backend.
type Option func(*config)

type config struct {
	fields []string
}

// WithFields overrides the allow-list derived from the model.
func WithFields(fields ...string) Option {
	return func(c *config) {
		c.fields = append(c.fields, fields...)
	}
}

type source func(c Request) (map[string]any, error)

type backend struct {
	read   source
	fields []string
}

// NewQuery returns a backend that reads the query string.
// Only the first value of a repeated key is used.
func NewQuery(model any, opts ...Option) (Backend, error) {
	return newBackend(model, readQuery, opts...)
}

// NewBody returns a backend that reads the decoded request body.
func NewBody(model any, opts ...Option) (Backend, error) {
	return newBackend(model, readBody, opts...)
}

// MustQuery is like NewQuery but panics on error.
func MustQuery(model any, opts ...Option) Backend {
	b, err := NewQuery(model, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// MustBody is like NewBody but panics on error.
func MustBody(model any, opts ...Option) Backend {
	b, err := NewBody(model, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

func newBackend(model any, read source, opts ...Option) (Backend, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	fields := cfg.fields
	if len(fields) == 0 {
		var err error
		fields, err = FieldNames(model)
		if err != nil {
			return nil, err
		}
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	return &backend{read: read, fields: slices.Clone(fields)}, nil
}

func (b *backend) Fields() []string {
	return slices.Clone(b.fields)
}

func (b *backend) Params(c Request) (map[string]any, error) {
	return b.read(c)
}

func (b *backend) Filter(c Request) (map[string]any, error) {
	params, err := b.read(c)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(b.fields))
	for _, f := range b.fields {
		if v, ok := params[f]; ok {
			out[f] = v
		}
	}
	return out, nil
}

func readQuery(c Request) (map[string]any, error) {
	q := c.Request().URL.Query()
	out := make(map[string]any, len(q))
	for k, v := range q {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}

func readBody(c Request) (map[string]any, error) {
	params, err := c.BodyParams()
	if err != nil {
		return nil, err
	}
	return maps.Clone(params), nil
}

// FieldNames returns the filterable fields of model.
// A Model reports its own names; for a struct the json tag names of the
// exported fields are used, falling back to the Go field name.
func FieldNames(model any) ([]string, error) {
	if m, ok := model.(Model); ok {
		return m.FieldNames(), nil
	}

	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidModel, model)
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
	return names, nil
}
