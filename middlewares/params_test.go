package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/middlewares"
	"github.com/dmitrymomot/restbase/pkg/exception"
	"github.com/dmitrymomot/restbase/pkg/response"
	"github.com/dmitrymomot/restbase/pkg/status"
)

func ok(internal.Context) error { return nil }

func TestQueryParams(t *testing.T) {
	t.Parallel()

	mw := middlewares.QueryParams("id", "name", "page")

	c, _ := newRequest(http.MethodGet, "/?id=1&page=2", "")
	err := mw(ok)(c)
	require.Error(t, err)
	assert.True(t, exception.Is(err, status.QueryParamMissing))
	assert.EqualError(t, err, "Query param `name` is required")

	c, _ = newRequest(http.MethodGet, "/?id=1&name=&page=2", "")
	assert.NoError(t, mw(ok)(c))
}

func TestBodyParams(t *testing.T) {
	t.Parallel()

	mw := middlewares.BodyParams("title", "content")

	t.Run("json body on put", func(t *testing.T) {
		t.Parallel()

		c, _ := newRequest(http.MethodPut, "/", `{"content":"x"}`)
		err := mw(ok)(c)
		assert.True(t, exception.Is(err, status.BodyParamMissing))
		assert.EqualError(t, err, "Body param `title` is required")
	})

	t.Run("form body on post", func(t *testing.T) {
		t.Parallel()

		c, _ := newRequest(http.MethodPost, "/", "title=a&content=b")
		assert.NoError(t, mw(ok)(c))
	})

	t.Run("undecodable body is a plain error", func(t *testing.T) {
		t.Parallel()

		c, _ := newRequest(http.MethodPatch, "/", `{"title"`)
		err := mw(ok)(c)
		require.Error(t, err)
		_, isException := exception.As(err)
		assert.False(t, isException)

		_, code := middlewares.Dispatch(err)
		assert.Equal(t, status.UncaughtException.Value, code)
	})

	t.Run("body stays readable", func(t *testing.T) {
		t.Parallel()

		c, _ := newRequest(http.MethodPut, "/", `{"title":"a","content":"b"}`)
		err := mw(func(c internal.Context) error {
			body, err := c.BodyParams()
			require.NoError(t, err)
			assert.Equal(t, "a", body["title"])
			return nil
		})(c)
		assert.NoError(t, err)
	})
}

func TestBodyParamsJSONPost(t *testing.T) {
	t.Parallel()

	newApp := func(opts ...internal.Option) *internal.App {
		opts = append(opts,
			internal.WithMiddleware(middlewares.Exception()),
			internal.WithHandlers(routesFunc(func(r internal.Router) {
				r.POST("/posts", func(c internal.Context) error {
					return c.Respond(response.OK("created"))
				}, middlewares.BodyParams("title"))
			})),
		)
		return internal.New(opts...)
	}
	post := func(app *internal.App) string {
		req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"title":"go"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		app.ServeHTTP(w, req)
		return w.Body.String()
	}

	t.Run("post reads the form by default", func(t *testing.T) {
		t.Parallel()
		assert.JSONEq(t, `{"code":4,"data":null,"msg":"Body param `+"`title`"+` is required"}`, post(newApp()))
	})

	t.Run("json accepted when enabled", func(t *testing.T) {
		t.Parallel()
		assert.JSONEq(t, `{"code":0,"data":"created","msg":null}`, post(newApp(internal.WithJSONPost(true))))
	})
}

func TestPathParams(t *testing.T) {
	t.Parallel()

	mw := middlewares.PathParams("id")

	c, _ := newRequest(http.MethodPost, "/blogs//publish", "")
	err := mw(ok)(c)
	assert.True(t, exception.Is(err, status.PathParamMissing))

	c, _ = newRequest(http.MethodPost, "/blogs/1/publish", "")
	assert.NoError(t, mw(ok)(c.withParam("id", "1")))
}
