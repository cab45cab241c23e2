package middlewares_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/middlewares"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	capture := func(got *string) internal.HandlerFunc {
		return func(c internal.Context) error {
			*got = middlewares.GetRequestID(c)
			return nil
		}
	}

	t.Run("generates id", func(t *testing.T) {
		t.Parallel()

		var got string
		c, rec := newRequest(http.MethodGet, "/", "")
		require.NoError(t, middlewares.RequestID()(capture(&got))(c))

		assert.Len(t, got, 26)
		assert.Equal(t, got, rec.Header().Get("X-Request-ID"))
	})

	t.Run("header priority", func(t *testing.T) {
		t.Parallel()

		var got string
		c, _ := newRequest(http.MethodGet, "/", "")
		c.request.Header.Set("X-Correlation-ID", "corr")
		c.request.Header.Set("X-Request-ID", "upstream")
		require.NoError(t, middlewares.RequestID()(capture(&got))(c))
		assert.Equal(t, "upstream", got)

		c, _ = newRequest(http.MethodGet, "/", "")
		c.request.Header.Set("X-Correlation-ID", "corr")
		require.NoError(t, middlewares.RequestID()(capture(&got))(c))
		assert.Equal(t, "corr", got)
	})

	t.Run("custom options", func(t *testing.T) {
		t.Parallel()

		var got string
		mw := middlewares.RequestID(
			middlewares.WithRequestIDHeaders("X-Trace"),
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
			middlewares.WithRequestIDResponseHeader("X-Trace"),
		)

		c, rec := newRequest(http.MethodGet, "/", "")
		c.request.Header.Set("X-Request-ID", "ignored")
		require.NoError(t, mw(capture(&got))(c))
		assert.Equal(t, "fixed", got)
		assert.Equal(t, "fixed", rec.Header().Get("X-Trace"))
		assert.Empty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("rejects unusable upstream ids", func(t *testing.T) {
		t.Parallel()

		for _, bad := range []string{"has space", "line\nbreak", strings.Repeat("x", middlewares.MaxRequestIDLength+1)} {
			var got string
			c, _ := newRequest(http.MethodGet, "/", "")
			c.request.Header.Set("X-Request-ID", bad)
			require.NoError(t, middlewares.RequestID()(capture(&got))(c))
			assert.Len(t, got, 26, "%q", bad)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		t.Parallel()

		c, _ := newRequest(http.MethodGet, "/", "")
		assert.Empty(t, middlewares.GetRequestID(c))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	extract := middlewares.RequestIDExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	c, _ := newRequest(http.MethodGet, "/", "")
	c.request.Header.Set("X-Request-ID", "abc")
	err := middlewares.RequestID()(func(c internal.Context) error {
		attr, ok := extract(c)
		require.True(t, ok)
		assert.Equal(t, "request_id", attr.Key)
		assert.Equal(t, "abc", attr.Value.String())
		return nil
	})(c)
	require.NoError(t, err)
}
