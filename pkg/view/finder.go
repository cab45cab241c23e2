package view

import (
	"context"

	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/pkg/exception"
	"github.com/dmitrymomot/restbase/pkg/store"
)

// ObjectFinder resolves single records of a repository.
type ObjectFinder[T any] struct {
	Repository store.Repository[T]
	PKField    string // default: "id"
}

// Get returns the record matching lookup, or store.ErrNotFound.
func (f ObjectFinder[T]) Get(ctx context.Context, lookup store.Lookup) (T, error) {
	return f.Repository.Find(ctx, lookup)
}

// ByPK returns the record with primary key pk. An empty pk fails with
// QueryParameterMissing naming field.
func (f ObjectFinder[T]) ByPK(ctx context.Context, pk, field string) (T, error) {
	if pk == "" {
		var zero T
		return zero, exception.QueryParameterMissing(field)
	}
	return f.Get(ctx, store.Lookup{f.pkField(): pk})
}

// ByRequest reads the primary key from the query parameter field.
func (f ObjectFinder[T]) ByRequest(c internal.Context, field string) (T, error) {
	return f.ByPK(c, c.Query(field), field)
}

func (f ObjectFinder[T]) pkField() string {
	if f.PKField == "" {
		return DefaultPKField
	}
	return f.PKField
}
