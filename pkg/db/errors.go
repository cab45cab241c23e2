package db

import "errors"

var (
	ErrFailedToParseDBConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed        = errors.New("db: healthcheck failed")
	ErrShutdown                 = errors.New("db: pool did not close in time")
	ErrBeginTx                  = errors.New("db: failed to begin transaction")
	ErrSetDialect               = errors.New("db: migrations: failed to set dialect")
	ErrApplyMigrations          = errors.New("db: migrations: failed to apply")
)
