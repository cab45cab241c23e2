package middlewares_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/pkg/response"
	"github.com/dmitrymomot/restbase/pkg/storage"
)

// testContext is a minimal Context for driving middleware directly.
type testContext struct {
	request  *http.Request
	response *internal.ResponseWriter
	identity internal.Identity
	params   map[string]string
	names    response.FieldNames
	logs     *logBuffer
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		request:  r,
		response: internal.NewResponseWriter(w),
		params:   map[string]string{},
		names:    response.DefaultFieldNames(),
		logs:     &logBuffer{},
	}
}

func (c *testContext) withIdentity(id internal.Identity) *testContext {
	c.identity = id
	return c
}

func (c *testContext) withParam(name, value string) *testContext {
	c.params[name] = value
	return c
}

func (c *testContext) Request() *http.Request                   { return c.request }
func (c *testContext) SetRequest(r *http.Request)               { c.request = r }
func (c *testContext) Response() http.ResponseWriter            { return c.response }
func (c *testContext) ResponseWriter() *internal.ResponseWriter { return c.response }
func (c *testContext) Context() context.Context                 { return c.request.Context() }
func (c *testContext) Deadline() (time.Time, bool)              { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}                    { return c.request.Context().Done() }
func (c *testContext) Err() error                               { return c.request.Context().Err() }
func (c *testContext) Value(key any) any                        { return c.request.Context().Value(key) }
func (c *testContext) Param(name string) string                 { return c.params[name] }
func (c *testContext) Query(name string) string                 { return c.request.URL.Query().Get(name) }
func (c *testContext) QueryParams() url.Values                  { return c.request.URL.Query() }
func (c *testContext) Form(name string) string                  { return c.request.FormValue(name) }
func (c *testContext) Identity() internal.Identity              { return c.identity }
func (c *testContext) Header(name string) string                { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string)             { c.response.Header().Set(name, value) }
func (c *testContext) FieldNames() response.FieldNames          { return c.names }
func (c *testContext) Written() bool                            { return c.response.Written() }
func (c *testContext) Get(key any) any                          { return c.request.Context().Value(key) }

func (c *testContext) QueryDefault(name, defaultValue string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *testContext) FormFile(name string) (multipart.File, *multipart.FileHeader, error) {
	return c.request.FormFile(name)
}

func (c *testContext) BodyParams() (map[string]any, error) {
	if c.request.Method == http.MethodPost {
		if err := c.request.ParseForm(); err != nil {
			return nil, err
		}
		out := map[string]any{}
		for k, v := range c.request.PostForm {
			out[k] = v[0]
		}
		return out, nil
	}
	raw, err := io.ReadAll(c.request.Body)
	if err != nil {
		return nil, err
	}
	c.request.Body = io.NopCloser(bytes.NewReader(raw))
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *testContext) Respond(e response.Envelope) error {
	return response.Write(c.response, http.StatusOK, e, c.names)
}

func (c *testContext) JSON(code int, v any) error {
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *testContext) String(code int, s string) error {
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *testContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *testContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *testContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *testContext) Logger() *slog.Logger              { return slog.New(slog.NewTextHandler(c.logs, nil)) }
func (c *testContext) LogDebug(msg string, attrs ...any) { c.Logger().Debug(msg, attrs...) }
func (c *testContext) LogInfo(msg string, attrs ...any)  { c.Logger().Info(msg, attrs...) }
func (c *testContext) LogWarn(msg string, attrs ...any)  { c.Logger().Warn(msg, attrs...) }
func (c *testContext) LogError(msg string, attrs ...any) { c.Logger().Error(msg, attrs...) }

func (c *testContext) Storage() (storage.Storage, error) { return nil, storage.ErrNotConfigured }

// logBuffer collects log output from concurrent writers.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newRequest builds a request and a fresh testContext around a recorder.
func newRequest(method, target, body string) (*testContext, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if method == http.MethodPost && body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	return newTestContext(rec, req), rec
}

// ensure the fake keeps up with the interface
var _ internal.Context = (*testContext)(nil)
