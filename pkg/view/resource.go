package view

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/pkg/filter"
	"github.com/dmitrymomot/restbase/pkg/response"
	"github.com/dmitrymomot/restbase/pkg/schema"
	"github.com/dmitrymomot/restbase/pkg/store"
	"github.com/dmitrymomot/restbase/pkg/validator"
)

// Resource serves CRUD handlers for records of type T.
//
// Zero fields take defaults on first use: the filter allow-list is the
// field set of T, records are ordered by DefaultOrdering when T has a
// create_at field, pages hold DefaultPageSize records.
type Resource[T any] struct {
	Repository store.Repository[T]

	// Schema validates create and update payloads. Without one the raw
	// body mapping is stored.
	Schema schema.Schema

	// Filter reads List filters. ListWithPost reads the same fields from
	// the body.
	Filter filter.Backend

	PKParam string // path or query parameter holding the primary key
	PKField string // record field the primary key is looked up by

	// Only and Exclude narrow the fields of returned records.
	Only    []string
	Exclude []string

	Ordering    []string
	SizeParam   string
	PageParam   string
	DefaultSize int

	FileUpload   UploadView
	FileDownload DownloadView

	once       sync.Once
	bodyFilter filter.Backend
	pkSource   internal.Extractor
	initErr    error
}

var (
	_ Listable         = (*Resource[struct{}])(nil)
	_ PostListable     = (*Resource[struct{}])(nil)
	_ Detailable       = (*Resource[struct{}])(nil)
	_ Creatable        = (*Resource[struct{}])(nil)
	_ Updatable        = (*Resource[struct{}])(nil)
	_ PartialUpdatable = (*Resource[struct{}])(nil)
	_ Deletable        = (*Resource[struct{}])(nil)
	_ Uploadable       = (*Resource[struct{}])(nil)
	_ Downloadable     = (*Resource[struct{}])(nil)
)

func (r *Resource[T]) init() error {
	r.once.Do(func() {
		fields := store.Fields[T]()

		if r.Filter == nil {
			r.Filter, r.initErr = filter.NewQuery(nil, filter.WithFields(fields...))
			if r.initErr != nil {
				return
			}
		}
		r.bodyFilter, r.initErr = filter.NewBody(nil, filter.WithFields(r.Filter.Fields()...))
		if r.initErr != nil {
			return
		}

		if r.PKParam == "" {
			r.PKParam = DefaultPKParam
		}
		r.pkSource = internal.NewExtractor(internal.FromParam(r.PKParam), internal.FromQuery(r.PKParam))
		if r.PKField == "" {
			r.PKField = DefaultPKField
		}
		if r.Ordering == nil {
			if f, _ := store.Order(DefaultOrdering); slices.Contains(fields, f) {
				r.Ordering = []string{DefaultOrdering}
			}
		}
		if r.SizeParam == "" {
			r.SizeParam = DefaultSizeParam
		}
		if r.PageParam == "" {
			r.PageParam = DefaultPageParam
		}
		if r.DefaultSize <= 0 {
			r.DefaultSize = DefaultPageSize
		}
	})
	return r.initErr
}

// Finder returns the ObjectFinder used by the record handlers.
func (r *Resource[T]) Finder() ObjectFinder[T] {
	return ObjectFinder[T]{Repository: r.Repository, PKField: r.PKField}
}

// List serves the records matching the query string filters.
// A page size of 0 returns every match in a plain envelope.
func (r *Resource[T]) List() internal.HandlerFunc {
	return func(c internal.Context) error {
		if err := r.init(); err != nil {
			return err
		}
		return r.list(c, r.Filter)
	}
}

// ListWithPost serves List with filters taken from the body.
func (r *Resource[T]) ListWithPost() internal.HandlerFunc {
	return func(c internal.Context) error {
		if err := r.init(); err != nil {
			return err
		}
		return r.list(c, r.bodyFilter)
	}
}

func (r *Resource[T]) list(c internal.Context, backend filter.Backend) error {
	where, err := backend.Filter(c)
	if err != nil {
		return err
	}
	size, page, err := r.pagination(c)
	if err != nil {
		return err
	}

	q := store.Query{Where: where, OrderBy: r.Ordering}
	if size > 0 {
		q.Limit, q.Offset = size, (page-1)*size
	}
	items, total, err := r.Repository.List(c, q)
	if err != nil {
		return err
	}

	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rec, err := r.record(item)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	if size == 0 {
		return c.Respond(response.OK(records))
	}
	return c.Respond(response.Paginated(records, total))
}

func (r *Resource[T]) pagination(c internal.Context) (size, page int, err error) {
	var errs validator.ValidationErrors

	size, sent, err := internal.LookupQuery[int](c, r.SizeParam)
	switch {
	case !sent:
		size = r.DefaultSize
	case err != nil || size < 0:
		errs = append(errs, validator.ValidationError{
			Field:          r.SizeParam,
			Message:        "value is not a valid non-negative integer",
			TranslationKey: "validation.non_negative_integer",
		})
	}

	page, sent, err = internal.LookupQuery[int](c, r.PageParam)
	switch {
	case !sent:
		page = 1
	case err != nil || page < 1:
		errs = append(errs, validator.ValidationError{
			Field:             r.PageParam,
			Message:           "ensure this value is greater than or equal to 1",
			TranslationKey:    "validation.min",
			TranslationValues: map[string]any{"min": 1},
		})
	}

	if len(errs) > 0 {
		return 0, 0, errs
	}
	return size, page, nil
}

// Detail serves the record with the requested primary key.
func (r *Resource[T]) Detail() internal.HandlerFunc {
	return func(c internal.Context) error {
		if err := r.init(); err != nil {
			return err
		}
		obj, err := r.find(c)
		if err != nil {
			return err
		}
		return r.respond(c, obj)
	}
}

// Create validates the body and stores a new record.
func (r *Resource[T]) Create() internal.HandlerFunc {
	return func(c internal.Context) error {
		if err := r.init(); err != nil {
			return err
		}
		body, err := c.BodyParams()
		if err != nil {
			return err
		}
		fields, err := r.validate(body)
		if err != nil {
			return err
		}
		obj, err := r.Repository.Create(c, store.Normalize(fields))
		if err != nil {
			return err
		}
		return r.respond(c, obj)
	}
}

// Update replaces the record with the validated body.
func (r *Resource[T]) Update() internal.HandlerFunc {
	return func(c internal.Context) error {
		return r.update(c, false)
	}
}

// PartialUpdate validates the record's current fields overlaid with the
// body, so omitted fields keep their values.
func (r *Resource[T]) PartialUpdate() internal.HandlerFunc {
	return func(c internal.Context) error {
		return r.update(c, true)
	}
}

func (r *Resource[T]) update(c internal.Context, partial bool) error {
	if err := r.init(); err != nil {
		return err
	}
	obj, err := r.find(c)
	if err != nil {
		return err
	}
	body, err := c.BodyParams()
	if err != nil {
		return err
	}

	payload := body
	if partial && r.Schema != nil {
		current, err := schema.Dump(obj)
		if err != nil {
			return err
		}
		payload = Merge(current, body)
	}

	fields, err := r.validate(payload)
	if err != nil {
		return err
	}
	fields = maps.Clone(fields)
	delete(fields, r.PKField)

	pk, err := r.pk(obj)
	if err != nil {
		return err
	}
	updated, err := r.Repository.Update(c, pk, store.Normalize(fields))
	if err != nil {
		return err
	}
	return r.respond(c, updated)
}

// Delete removes the record and answers with "success".
func (r *Resource[T]) Delete() internal.HandlerFunc {
	return func(c internal.Context) error {
		if err := r.init(); err != nil {
			return err
		}
		obj, err := r.find(c)
		if err != nil {
			return err
		}
		pk, err := r.pk(obj)
		if err != nil {
			return err
		}
		if err := r.Repository.Delete(c, pk); err != nil {
			return err
		}
		return c.Respond(response.OK("success"))
	}
}

// Upload delegates to FileUpload.
func (r *Resource[T]) Upload() internal.HandlerFunc {
	return r.FileUpload.Upload()
}

// Download delegates to FileDownload.
func (r *Resource[T]) Download() internal.HandlerFunc {
	return r.FileDownload.Download()
}

// find reads the primary key from the path, falling back to the query
// string.
func (r *Resource[T]) find(c internal.Context) (T, error) {
	pk, _ := r.pkSource.Extract(c)
	return r.Finder().ByPK(c, pk, r.PKParam)
}

func (r *Resource[T]) pk(obj T) (string, error) {
	fields, err := schema.Dump(obj)
	if err != nil {
		return "", err
	}
	v, ok := fields[r.PKField]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %s", store.ErrUnknownField, r.PKField)
	}
	return fmt.Sprint(v), nil
}

func (r *Resource[T]) validate(data map[string]any) (map[string]any, error) {
	if r.Schema == nil {
		return data, nil
	}
	return r.Schema.Load(data)
}

func (r *Resource[T]) record(obj T) (map[string]any, error) {
	fields, err := schema.Dump(obj)
	if err != nil {
		return nil, err
	}
	return response.SerializeRecord(record(fields), response.Only(r.Only...), response.Exclude(r.Exclude...)), nil
}

func (r *Resource[T]) respond(c internal.Context, obj T) error {
	rec, err := r.record(obj)
	if err != nil {
		return err
	}
	return c.Respond(response.OK(rec))
}

type record map[string]any

func (r record) Fields() map[string]any { return r }

// Merge overlays patch on current. Neither input is modified.
func Merge(current, patch map[string]any) map[string]any {
	out := maps.Clone(current)
	if out == nil {
		out = make(map[string]any, len(patch))
	}
	maps.Copy(out, patch)
	return out
}
