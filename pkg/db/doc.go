// Package db connects to PostgreSQL through a pgx pool and applies goose
// migrations embedded in the binary.
//
// The pool backs store.Postgres repositories:
//
//	var cfg db.Config
//	_ = env.Parse(&cfg)
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := db.Migrate(ctx, pool, migrations, "migrations", cfg.MigrationsTable, logger); err != nil {
//	    return err
//	}
//
//	posts := store.NewPostgres[Post](pool, "posts", "id")
//
// [Healthcheck] plugs into the readiness probe and [Shutdown] into the
// server shutdown hooks. [WithTx] wraps a unit of work in a transaction.
//
// Environment variables:
//
//	DATABASE_URL                - PostgreSQL connection URL (required)
//	DATABASE_MAX_OPEN_CONNS     - maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - minimum idle connections (default: 2)
//	DATABASE_HEALTHCHECK_PERIOD - pool health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - connection attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - base wait between attempts (default: 5s)
//	DATABASE_MIGRATIONS_TABLE   - goose version table (default: schema_migrations)
package db
