package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restbase/internal"
)

func TestDetach(t *testing.T) {
	t.Parallel()

	t.Run("writes reach the client until cut", func(t *testing.T) {
		t.Parallel()

		w := serve(t, httptest.NewRequest(http.MethodGet, "/7", nil), nil, func(c internal.Context) error {
			dc, cut := internal.Detach(c)
			defer cut()

			assert.Equal(t, "7", dc.Param("id"))
			dc.SetHeader("X-Detached", "1")
			assert.Empty(t, c.Response().Header().Get("X-Detached"))
			return dc.String(http.StatusAccepted, "from detached")
		})

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "1", w.Header().Get("X-Detached"))
		assert.Equal(t, "from detached", w.Body.String())
	})

	t.Run("cut rejects later writes", func(t *testing.T) {
		t.Parallel()

		var lateErr error
		w := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) error {
			dc, cut := internal.Detach(c)
			cut()

			lateErr = dc.String(http.StatusOK, "late")
			assert.False(t, c.Written())
			return c.String(http.StatusOK, "owner")
		})

		require.ErrorIs(t, lateErr, http.ErrHandlerTimeout)
		assert.Equal(t, "owner", w.Body.String())
	})

	t.Run("detached state stays local", func(t *testing.T) {
		t.Parallel()

		type key struct{}
		serve(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) error {
			c.Set(key{}, "owner")
			dc, cut := internal.Detach(c)
			defer cut()

			dc.Set(key{}, "detached")
			assert.Equal(t, "detached", dc.Get(key{}))
			assert.Equal(t, "owner", c.Get(key{}))
			return nil
		})
	})
}
