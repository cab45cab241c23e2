package internal_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/pkg/response"
	"github.com/dmitrymomot/restbase/pkg/storage"
)

// captureHandler registers fn on every method of /{id} and /.
type captureHandler struct {
	fn func(c internal.Context) error
}

func (h *captureHandler) Routes(r internal.Router) {
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		r.Handle(m, "/", h.fn)
		r.Handle(m, "/{id}", h.fn)
	}
}

// requestVia serves req through an App whose route runs fn.
func requestVia(t *testing.T, req *http.Request, opts []internal.Option, fn func(c internal.Context)) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, req, opts, func(c internal.Context) error {
		fn(c)
		return nil
	})
}

func serve(t *testing.T, req *http.Request, opts []internal.Option, fn internal.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	opts = append(opts, internal.WithHandlers(&captureHandler{fn: fn}))
	app := internal.New(opts...)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func TestContextRequestAccessors(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/42?q=go&q=rust&empty=", nil)
	req.Header.Set("X-Trace", "abc")

	w := requestVia(t, req, nil, func(c internal.Context) {
		assert.Equal(t, "42", c.Param("id"))
		assert.Equal(t, "go", c.Query("q"))
		assert.Equal(t, "fallback", c.QueryDefault("empty", "fallback"))
		assert.Equal(t, url.Values{"q": {"go", "rust"}, "empty": {""}}, c.QueryParams())
		assert.Equal(t, "abc", c.Header("X-Trace"))
		c.SetHeader("X-Out", "1")
		assert.Equal(t, response.DefaultFieldNames(), c.FieldNames())
	})
	assert.Equal(t, "1", w.Header().Get("X-Out"))
}

func TestContextBodyParams(t *testing.T) {
	t.Parallel()

	t.Run("json body for non-post methods", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPatch, "/1", strings.NewReader(`{"title":"go","views":3}`))
		requestVia(t, req, nil, func(c internal.Context) {
			params, err := c.BodyParams()
			require.NoError(t, err)
			assert.Equal(t, "go", params["title"])
			assert.Equal(t, json.Number("3"), params["views"])

			again, err := c.BodyParams()
			require.NoError(t, err)
			assert.Equal(t, params, again)

			raw, err := io.ReadAll(c.Request().Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"title":"go","views":3}`, string(raw))
		})
	})

	t.Run("form values for post", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("title=go&title=rust&author=ann"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		requestVia(t, req, nil, func(c internal.Context) {
			params, err := c.BodyParams()
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"title": "go", "author": "ann"}, params)
		})
	})

	t.Run("json post yields the empty form", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"go"}`))
		req.Header.Set("Content-Type", "application/json")
		requestVia(t, req, nil, func(c internal.Context) {
			params, err := c.BodyParams()
			require.NoError(t, err)
			assert.Empty(t, params)

			raw, err := io.ReadAll(c.Request().Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"title":"go"}`, string(raw))
		})
	})

	t.Run("json post with WithJSONPost", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"go"}`))
		req.Header.Set("Content-Type", "application/json")
		requestVia(t, req, []internal.Option{internal.WithJSONPost(true)}, func(c internal.Context) {
			params, err := c.BodyParams()
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"title": "go"}, params)
		})

		form := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("title=go"))
		form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		requestVia(t, form, []internal.Option{internal.WithJSONPost(true)}, func(c internal.Context) {
			params, err := c.BodyParams()
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"title": "go"}, params)
		})
	})

	t.Run("empty body is an empty mapping", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPut, "/1", nil)
		requestVia(t, req, nil, func(c internal.Context) {
			params, err := c.BodyParams()
			require.NoError(t, err)
			assert.Empty(t, params)
		})
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPut, "/1", strings.NewReader(`{"title":`))
		requestVia(t, req, nil, func(c internal.Context) {
			_, err := c.BodyParams()
			require.Error(t, err)
		})
	})

	t.Run("json that is not an object", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPut, "/1", strings.NewReader(`[1,2]`))
		requestVia(t, req, nil, func(c internal.Context) {
			_, err := c.BodyParams()
			require.ErrorIs(t, err, internal.ErrBodyNotObject)
		})
	})
}

type pointerUser struct{ id string }

func (u *pointerUser) IsAuthenticated() bool { return u.id != "" }
func (u *pointerUser) IsSuperuser() bool     { return false }

func TestContextIdentity(t *testing.T) {
	t.Parallel()

	t.Run("nil without resolver", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) {
			assert.Nil(t, c.Identity())
		})
	})

	t.Run("resolved once per request", func(t *testing.T) {
		t.Parallel()

		calls := 0
		resolve := internal.WithIdentity(func(c internal.Context) internal.Identity {
			calls++
			return internal.User{ID: c.Header("X-User"), Superuser: true}
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User", "u1")
		requestVia(t, req, []internal.Option{resolve}, func(c internal.Context) {
			id := c.Identity()
			require.NotNil(t, id)
			assert.True(t, id.IsAuthenticated())
			assert.True(t, id.IsSuperuser())
			c.Identity()
		})
		assert.Equal(t, 1, calls)
	})

	t.Run("nil pointer identity is no identity", func(t *testing.T) {
		t.Parallel()

		resolve := internal.WithIdentity(func(internal.Context) internal.Identity {
			var u *pointerUser
			return u
		})
		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), []internal.Option{resolve}, func(c internal.Context) {
			assert.Nil(t, c.Identity())
			assert.False(t, internal.Authenticated(c.Identity()))
		})
		assert.True(t, internal.Authenticated(&pointerUser{id: "u2"}))
	})

	t.Run("anonymous user", func(t *testing.T) {
		t.Parallel()

		assert.False(t, internal.Anonymous.IsAuthenticated())
		assert.False(t, internal.User{Superuser: true}.IsSuperuser())
	})
}

func TestContextRespond(t *testing.T) {
	t.Parallel()

	names := internal.WithFieldNames(response.FieldNames{Data: "result", Code: "status"})
	w := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), []internal.Option{names}, func(c internal.Context) error {
		return c.Respond(response.OK(map[string]any{"id": 1}))
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":{"id":1},"msg":null,"status":0}`, w.Body.String())
}

func TestContextSetGet(t *testing.T) {
	t.Parallel()

	type key struct{}
	requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) {
		assert.Nil(t, c.Get(key{}))
		c.Set(key{}, "v")
		assert.Equal(t, "v", c.Get(key{}))
		assert.Equal(t, "v", c.Value(key{}))
		assert.Equal(t, "v", internal.ContextValue[string](c, key{}))
		assert.Zero(t, internal.ContextValue[int](c, key{}))
	})
}

func TestContextStorageNotConfigured(t *testing.T) {
	t.Parallel()

	requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) {
		_, err := c.Storage()
		assert.ErrorIs(t, err, storage.ErrNotConfigured)
	})
}
