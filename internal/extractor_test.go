package internal_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/restbase/internal"
)

func TestExtractor(t *testing.T) {
	t.Parallel()

	ext := internal.NewExtractor(
		internal.FromHeader("X-Token"),
		internal.FromQuery("token"),
		internal.FromBearerToken(),
	)

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		target string
		want   string
		found  bool
	}{
		{"none", func(*http.Request) {}, "/", "", false},
		{"header wins", func(r *http.Request) { r.Header.Set("X-Token", "h") }, "/?token=q", "h", true},
		{"falls through to query", func(*http.Request) {}, "/?token=q", "q", true},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "bearer abc") }, "/", "abc", true},
		{"bearer without token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") }, "/", "", false},
		{"basic is not bearer", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, "/", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			tt.setup(req)
			requestVia(t, req, nil, func(c internal.Context) {
				v, ok := ext.Extract(c)
				assert.Equal(t, tt.found, ok)
				assert.Equal(t, tt.want, v)
			})
		})
	}
}

func TestFromParamAndForm(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/7", strings.NewReader("name=ann"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	requestVia(t, req, nil, func(c internal.Context) {
		v, ok := internal.FromParam("id")(c)
		assert.True(t, ok)
		assert.Equal(t, "7", v)

		v, ok = internal.FromForm("name")(c)
		assert.True(t, ok)
		assert.Equal(t, "ann", v)

		_, ok = internal.FromForm("missing")(c)
		assert.False(t, ok)
	})
}

func TestFromBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPatch, "/7", strings.NewReader(`{"id":"u1","size":3,"tags":["a"],"none":null}`))
	req.Header.Set("Content-Type", "application/json")
	requestVia(t, req, nil, func(c internal.Context) {
		v, ok := internal.FromBody("id")(c)
		assert.True(t, ok)
		assert.Equal(t, "u1", v)

		v, ok = internal.FromBody("size")(c)
		assert.True(t, ok)
		assert.Equal(t, "3", v)

		for _, name := range []string{"tags", "none", "missing"} {
			_, ok = internal.FromBody(name)(c)
			assert.False(t, ok, name)
		}

		pk := internal.NewExtractor(internal.FromQuery("id"), internal.FromBody("id"))
		v, _ = pk.Extract(c)
		assert.Equal(t, "u1", v)
	})
}
