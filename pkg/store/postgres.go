package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is a Repository over a single table. Columns are the db tags of
// T, falling back to the lower-cased field names, and rows are scanned with
// pgx.RowToStructByName. Lookups compare the text form of a column so
// string filters from the query string match typed columns.
type Postgres[T any] struct {
	db      Querier
	table   string
	pk      string
	columns []string
	known   map[string]struct{}
}

// NewPostgres creates a repository for table. pk is the primary key column.
func NewPostgres[T any](db Querier, table, pk string) *Postgres[T] {
	cols := columns[T]()
	return &Postgres[T]{
		db:      db,
		table:   pgx.Identifier{table}.Sanitize(),
		pk:      pk,
		columns: cols,
		known:   fieldSet(cols),
	}
}

// WithTx returns a copy of the repository bound to tx.
func (p *Postgres[T]) WithTx(tx pgx.Tx) *Postgres[T] {
	cp := *p
	cp.db = tx
	return &cp
}

func (p *Postgres[T]) Find(ctx context.Context, lookup Lookup) (T, error) {
	var zero T
	if len(lookup) == 0 {
		return zero, ErrEmptyLookup
	}

	where, args, err := p.where(lookup, 1)
	if err != nil {
		return zero, err
	}

	rows, err := p.db.Query(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1", p.selectList(), p.table, where), args...)
	if err != nil {
		return zero, mapPgError(err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, mapPgError(err)
	}
	return rec, nil
}

func (p *Postgres[T]) List(ctx context.Context, q Query) ([]T, int, error) {
	where, args, err := p.where(q.Where, 1)
	if err != nil {
		return nil, 0, err
	}
	clause := ""
	if where != "" {
		clause = " WHERE " + where
	}

	var total int
	if err := p.db.QueryRow(ctx, "SELECT count(*) FROM "+p.table+clause, args...).Scan(&total); err != nil {
		return nil, 0, mapPgError(err)
	}

	order, err := p.orderBy(q.OrderBy)
	if err != nil {
		return nil, 0, err
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s%s", p.selectList(), p.table, clause, order)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		sql += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	return recs, total, nil
}

func (p *Postgres[T]) Create(ctx context.Context, fields map[string]any) (T, error) {
	var zero T
	keys := slices.Sorted(maps.Keys(fields))
	if err := checkFields(p.known, keys...); err != nil {
		return zero, err
	}

	values := Normalize(fields)
	cols := make([]string, len(keys))
	marks := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		cols[i] = pgx.Identifier{k}.Sanitize()
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[k]
	}

	var sql string
	if len(keys) == 0 {
		sql = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", p.table, p.selectList())
	} else {
		sql = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			p.table, strings.Join(cols, ", "), strings.Join(marks, ", "), p.selectList())
	}
	return p.one(ctx, sql, args...)
}

func (p *Postgres[T]) Update(ctx context.Context, pk string, fields map[string]any) (T, error) {
	keys := slices.Sorted(maps.Keys(fields))
	keys = slices.DeleteFunc(keys, func(k string) bool { return k == p.pk })
	if len(keys) == 0 {
		return p.Find(ctx, Lookup{p.pk: pk})
	}
	if err := checkFields(p.known, keys...); err != nil {
		var zero T
		return zero, err
	}

	values := Normalize(fields)
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		args = append(args, values[k])
		sets[i] = fmt.Sprintf("%s = $%d", pgx.Identifier{k}.Sanitize(), len(args))
	}
	args = append(args, pk)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s::text = $%d RETURNING %s",
		p.table, strings.Join(sets, ", "), pgx.Identifier{p.pk}.Sanitize(), len(args), p.selectList())
	return p.one(ctx, sql, args...)
}

func (p *Postgres[T]) Delete(ctx context.Context, pk string) error {
	tag, err := p.db.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s::text = $1", p.table, pgx.Identifier{p.pk}.Sanitize()), pk)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres[T]) one(ctx context.Context, sql string, args ...any) (T, error) {
	var zero T
	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return zero, mapPgError(err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, mapPgError(err)
	}
	return rec, nil
}

func (p *Postgres[T]) where(conds map[string]any, first int) (string, []any, error) {
	keys := slices.Sorted(maps.Keys(conds))
	if err := checkFields(p.known, keys...); err != nil {
		return "", nil, err
	}

	parts := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s::text = $%d", pgx.Identifier{k}.Sanitize(), first+i)
		args[i] = fmt.Sprint(normalize(conds[k]))
	}
	return strings.Join(parts, " AND "), args, nil
}

func (p *Postgres[T]) orderBy(entries []string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		f, desc := Order(e)
		if err := checkFields(p.known, f); err != nil {
			return "", err
		}
		parts[i] = pgx.Identifier{f}.Sanitize()
		if desc {
			parts[i] += " DESC"
		}
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func (p *Postgres[T]) selectList() string {
	if len(p.columns) == 0 {
		return "*"
	}
	quoted := make([]string, len(p.columns))
	for i, c := range p.columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}

func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return errors.Join(ErrConflict, err)
	}
	return err
}

// columns lists the db tag names of T, falling back to the lower-cased field names.
func columns[T any]() []string {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil
	}
	cols := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tag, ok := sf.Tag.Lookup("db"); ok {
			if tag != "-" {
				cols = append(cols, tag)
			}
			continue
		}
		if tag := sf.Tag.Get("json"); tag == "-" {
			continue
		}
		cols = append(cols, strings.ToLower(sf.Name))
	}
	return cols
}
