package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/restbase/pkg/response"
	"github.com/dmitrymomot/restbase/pkg/storage"
)

// defaultMaxMemory bounds the in-memory part of a parsed multipart form.
const defaultMaxMemory = 32 << 20

// ErrBodyNotObject is returned when a JSON body is not an object.
var ErrBodyNotObject = errors.New("restbase: request body is not a JSON object")

// contextKey binds the request-scoped Context to its *http.Request.
type contextKey struct{}

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the underlying request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// SetRequest replaces the request, e.g. to attach a derived context.
	SetRequest(r *http.Request)

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// ResponseWriter returns the wrapped writer for status interception.
	ResponseWriter() *ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns the URL parameter value by name.
	// Returns empty string if the parameter doesn't exist.
	Param(name string) string

	// Query returns the query parameter value by name.
	// Returns empty string if the parameter doesn't exist.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// QueryParams returns the parsed query string.
	QueryParams() url.Values

	// Form returns the form value by name.
	Form(name string) string

	// FormFile returns the first file for the given form key.
	FormFile(name string) (multipart.File, *multipart.FileHeader, error)

	// BodyParams returns the request body as a mapping.
	// POST requests yield the form values (first value per key), so a JSON
	// POST has no body params unless the App was built with WithJSONPost.
	// Other methods decode the body as a JSON object.
	// The result is computed once per request and the body stays readable.
	BodyParams() (map[string]any, error)

	// Identity returns the identity resolved by the App's IdentityFunc.
	// Returns nil when no resolver is configured or it found nothing.
	Identity() Identity

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// FieldNames returns the envelope field names configured on the App.
	FieldNames() response.FieldNames

	// Respond writes the envelope with status 200.
	Respond(e response.Envelope) error

	// JSON writes a JSON response with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect redirects to the given URL with the given status code.
	Redirect(code int, url string) error

	// Written returns true if a response has already been written.
	Written() bool

	// Logger returns the logger for advanced usage.
	Logger() *slog.Logger

	// LogDebug logs a debug message with optional attributes.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs an info message with optional attributes.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs a warning message with optional attributes.
	LogWarn(msg string, attrs ...any)

	// LogError logs an error message with optional attributes.
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	// The value can be retrieved using Get or from c.Context().Value(key).
	Set(key any, value any)

	// Get retrieves a value from the request context.
	// Returns nil if the key is not found.
	Get(key any) any

	// Storage returns the configured storage client.
	// Returns storage.ErrNotConfigured if WithStorage was not called.
	Storage() (storage.Storage, error)
}

// requestContext implements the Context interface.
// One instance is shared by every middleware layer of a request.
type requestContext struct {
	request        *http.Request
	responseWriter *ResponseWriter
	app            *App

	identity       Identity
	identityLoaded bool

	body       map[string]any
	bodyErr    error
	bodyLoaded bool

	// err carries an error from an inner chi layer to the enclosing one.
	err error
}

// newContext creates the request-scoped context and binds it to r.
// An existing *ResponseWriter is reused.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	c := &requestContext{responseWriter: rw, app: app}
	c.request = r.WithContext(context.WithValue(r.Context(), contextKey{}, c))
	return c
}

func (c *requestContext) takeErr() error {
	err := c.err
	c.err = nil
	return err
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) SetRequest(r *http.Request) {
	if r != nil {
		c.request = r
	}
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	v := c.request.URL.Query().Get(name)
	if v == "" {
		return defaultValue
	}
	return v
}

func (c *requestContext) QueryParams() url.Values {
	return c.request.URL.Query()
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) FormFile(name string) (multipart.File, *multipart.FileHeader, error) {
	return c.request.FormFile(name)
}

func (c *requestContext) BodyParams() (map[string]any, error) {
	if !c.bodyLoaded {
		c.body, c.bodyErr = c.readBody()
		c.bodyLoaded = true
	}
	return c.body, c.bodyErr
}

func (c *requestContext) readBody() (map[string]any, error) {
	r := c.request
	if r.Method == http.MethodPost && !(c.app.jsonPost && isJSON(r)) {
		return readForm(r)
	}
	if r.Body == nil || r.Body == http.NoBody {
		return map[string]any{}, nil
	}

	raw, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrBodyNotObject
	}
	return m, nil
}

func readForm(r *http.Request) (map[string]any, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if ct == "multipart/form-data" {
		err = r.ParseMultipartForm(defaultMaxMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	out := make(map[string]any, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}

func isJSON(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/json"
}

func (c *requestContext) Identity() Identity {
	if !c.identityLoaded {
		c.identityLoaded = true
		if c.app.identity != nil {
			if id := c.app.identity(c); !isNilIdentity(id) {
				c.identity = id
			}
		}
	}
	return c.identity
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.responseWriter.Header().Set(name, value)
}

func (c *requestContext) FieldNames() response.FieldNames {
	return c.app.fieldNames
}

func (c *requestContext) Respond(e response.Envelope) error {
	return response.Write(c.responseWriter, http.StatusOK, e, c.app.fieldNames)
}

func (c *requestContext) JSON(code int, v any) error {
	return writeJSON(c.responseWriter, code, v)
}

func (c *requestContext) String(code int, s string) error {
	return writeString(c.responseWriter, code, s)
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func writeString(w http.ResponseWriter, code int, s string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, err := io.WriteString(w, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.responseWriter.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.responseWriter, c.request, url, code)
	return nil
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.app.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.app.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.app.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.app.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.app.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Storage() (storage.Storage, error) {
	if c.app.storage == nil {
		return nil, storage.ErrNotConfigured
	}
	return c.app.storage, nil
}
