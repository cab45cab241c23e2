package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := Connect(ctx, Config{})
	require.ErrorIs(t, err, ErrEmptyConnectionURL)

	for _, url := range []string{
		"http://localhost:6379",
		"localhost:6379",
		"postgresql://localhost:6379",
		"redis://localhost:notaport",
		"redis://localhost:6379/notanumber",
	} {
		_, err := Connect(ctx, Config{URL: url})
		require.ErrorIs(t, err, ErrFailedToParseURL, url)
	}
}

func TestParseAppliesConfig(t *testing.T) {
	t.Parallel()

	opts, err := parse(Config{
		URL:          "rediss://:secret@cache.local:6380/2",
		PoolSize:     25,
		MinIdleConns: 4,
		ReadTimeout:  time.Second,
	})
	require.NoError(t, err)
	require.Equal(t, "cache.local:6380", opts.Addr)
	require.Equal(t, 2, opts.DB)
	require.Equal(t, "secret", opts.Password)
	require.NotNil(t, opts.TLSConfig)
	require.Equal(t, 25, opts.PoolSize)
	require.Equal(t, 4, opts.MinIdleConns)
	require.Equal(t, time.Second, opts.ReadTimeout)
}

func TestConnectStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := Connect(ctx, Config{
		URL:           "redis://127.0.0.1:1/0",
		RetryAttempts: 5,
		RetryInterval: time.Second,
		DialTimeout:   50 * time.Millisecond,
	})
	require.ErrorIs(t, err, ErrConnectionFailed)
}

func TestHealthcheckNilClient(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Healthcheck(nil)(context.Background()), ErrHealthcheckFailed)
}

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	ok := &closer{}
	require.NoError(t, Shutdown(ok)(context.Background()))
	require.True(t, ok.closed)

	boom := errors.New("close error")
	require.ErrorIs(t, Shutdown(&closer{err: boom})(context.Background()), boom)
}
