package db

import "time"

// Config holds the PostgreSQL pool settings, parsed from the environment
// with caarlos0/env.
type Config struct {
	ConnectionString string `env:"DATABASE_URL,required" yaml:"url"`

	MigrationsTable string `env:"DATABASE_MIGRATIONS_TABLE" envDefault:"schema_migrations" yaml:"migrations_table"`

	HealthCheckPeriod time.Duration `env:"DATABASE_HEALTHCHECK_PERIOD" envDefault:"1m" yaml:"healthcheck_period"`
	MaxConnIdleTime   time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"10m" yaml:"max_conn_idle_time"`
	MaxConnLifetime   time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m" yaml:"max_conn_lifetime"`

	// Connect retries with a linearly growing wait: RetryInterval, then 2x, 3x...
	RetryAttempts int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3" yaml:"retry_attempts"`
	RetryInterval time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"5s" yaml:"retry_interval"`

	MaxOpenConns int32 `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10" yaml:"max_open_conns"`
	MinConns     int32 `env:"DATABASE_MIN_CONNS" envDefault:"2" yaml:"min_conns"`
}
