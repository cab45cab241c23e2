package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Beginner is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx. Beginning
// on a pgx.Tx opens a savepoint.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx runs fn in a transaction. It commits when fn returns nil and
// rolls back otherwise, including when fn panics.
//
// Repositories join the transaction through store.Postgres.WithTx:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//	    _, err := posts.WithTx(tx).Update(ctx, id, fields)
//	    return err
//	})
func WithTx(ctx context.Context, db Beginner, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.Join(ErrBeginTx, err)
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
