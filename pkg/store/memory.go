package store

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryOption configures a Memory repository.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	newID      func() string
	pk         string
	timestamps bool
}

// WithPrimaryKey sets the primary key field. Default: "id".
func WithPrimaryKey(field string) MemoryOption {
	return func(o *memoryOptions) {
		o.pk = field
	}
}

// WithIDGenerator sets the function generating primary keys for records
// created without one. Default: uuid.NewString.
func WithIDGenerator(fn func() string) MemoryOption {
	return func(o *memoryOptions) {
		o.newID = fn
	}
}

// WithTimestamps fills create_at on insert and update_at on every write.
func WithTimestamps() MemoryOption {
	return func(o *memoryOptions) {
		o.timestamps = true
	}
}

type memoryRow struct {
	fields map[string]any
	seq    uint64
}

// Memory is a Repository kept in a map. It is safe for concurrent use.
// Field equality in lookups compares the string forms of the values, the
// same way query string filters arrive.
type Memory[T any] struct {
	rows  map[string]*memoryRow
	known map[string]struct{}
	opts  memoryOptions
	mu    sync.RWMutex
	seq   uint64
}

// NewMemory creates an empty in-memory repository for T.
func NewMemory[T any](opts ...MemoryOption) *Memory[T] {
	o := memoryOptions{pk: "id", newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return &Memory[T]{
		rows:  make(map[string]*memoryRow),
		known: fieldSet(Fields[T]()),
		opts:  o,
	}
}

func (m *Memory[T]) Find(_ context.Context, lookup Lookup) (T, error) {
	var zero T
	if len(lookup) == 0 {
		return zero, ErrEmptyLookup
	}
	if err := checkFields(m.known, slices.Collect(maps.Keys(lookup))...); err != nil {
		return zero, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if pk, ok := lookup[m.opts.pk]; ok && len(lookup) == 1 {
		row, ok := m.rows[fmt.Sprint(pk)]
		if !ok {
			return zero, ErrNotFound
		}
		return Decode[T](row.fields)
	}

	for _, row := range m.sorted(nil) {
		if matches(row.fields, lookup) {
			return Decode[T](row.fields)
		}
	}
	return zero, ErrNotFound
}

func (m *Memory[T]) List(_ context.Context, q Query) ([]T, int, error) {
	if err := checkFields(m.known, slices.Collect(maps.Keys(q.Where))...); err != nil {
		return nil, 0, err
	}
	for _, o := range q.OrderBy {
		f, _ := Order(o)
		if err := checkFields(m.known, f); err != nil {
			return nil, 0, err
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var hits []*memoryRow
	for _, row := range m.sorted(q.OrderBy) {
		if matches(row.fields, q.Where) {
			hits = append(hits, row)
		}
	}

	total := len(hits)
	start := min(max(q.Offset, 0), total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}

	out := make([]T, 0, end-start)
	for _, row := range hits[start:end] {
		rec, err := Decode[T](row.fields)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, nil
}

func (m *Memory[T]) Create(_ context.Context, fields map[string]any) (T, error) {
	var zero T
	if err := checkFields(m.known, slices.Collect(maps.Keys(fields))...); err != nil {
		return zero, err
	}

	row := maps.Clone(fields)
	if row == nil {
		row = make(map[string]any)
	}
	if v, ok := row[m.opts.pk]; !ok || v == nil || v == "" {
		row[m.opts.pk] = m.opts.newID()
	}
	if m.opts.timestamps {
		now := time.Now().UTC()
		row["create_at"] = now
		row["update_at"] = now
	}

	rec, err := Decode[T](row)
	if err != nil {
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pk := fmt.Sprint(row[m.opts.pk])
	if _, exists := m.rows[pk]; exists {
		return zero, ErrConflict
	}
	m.seq++
	m.rows[pk] = &memoryRow{fields: row, seq: m.seq}
	return rec, nil
}

func (m *Memory[T]) Update(_ context.Context, pk string, fields map[string]any) (T, error) {
	var zero T
	if err := checkFields(m.known, slices.Collect(maps.Keys(fields))...); err != nil {
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[pk]
	if !ok {
		return zero, ErrNotFound
	}

	next := maps.Clone(row.fields)
	maps.Copy(next, fields)
	next[m.opts.pk] = row.fields[m.opts.pk]
	if m.opts.timestamps {
		next["create_at"] = row.fields["create_at"]
		next["update_at"] = time.Now().UTC()
	}

	rec, err := Decode[T](next)
	if err != nil {
		return zero, err
	}
	row.fields = next
	return rec, nil
}

func (m *Memory[T]) Delete(_ context.Context, pk string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[pk]; !ok {
		return ErrNotFound
	}
	delete(m.rows, pk)
	return nil
}

// Len returns the number of stored records.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// sorted returns the rows ordered by the given fields, then by insertion.
// Callers must hold the read lock.
func (m *Memory[T]) sorted(orderBy []string) []*memoryRow {
	rows := slices.Collect(maps.Values(m.rows))
	slices.SortStableFunc(rows, func(a, b *memoryRow) int {
		for _, o := range orderBy {
			f, desc := Order(o)
			c := compare(a.fields[f], b.fields[f])
			if desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return rows
}

func matches(row map[string]any, where map[string]any) bool {
	for k, want := range where {
		if fmt.Sprint(normalize(row[k])) != fmt.Sprint(normalize(want)) {
			return false
		}
	}
	return true
}

func compare(a, b any) int {
	switch x := normalize(a).(type) {
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case int64:
		if y, ok := normalize(b).(int64); ok {
			return cmp.Compare(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := normalize(b).(float64); ok {
			return cmp.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return cmp.Compare(boolInt(x), boolInt(y))
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
