package internal

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/restbase/pkg/response"
)

// Detach returns a Context for running a handler on another goroutine
// that may outlive the caller, and a cut function. The detached Context
// has its own request, error slot and response headers; its writes reach
// the client through c's writer until cut is called. After cut every
// write fails with http.ErrHandlerTimeout and c may answer the request
// itself. cut waits for a write in progress to finish.
func Detach(c Context) (Context, func()) {
	gw := &gatedWriter{parent: c.ResponseWriter(), header: http.Header{}}
	rw := NewResponseWriter(gw)

	if rc, ok := c.(*requestContext); ok {
		return rc.fork(rw), gw.cut
	}
	return &detachedContext{parentContext: c, request: isolateRoute(c.Request()), rw: rw}, gw.cut
}

// fork copies the request state of c onto rw. Layers below the fork find
// the copy through the request context, so c is never touched again.
func (c *requestContext) fork(rw *ResponseWriter) *requestContext {
	child := &requestContext{
		responseWriter: rw,
		app:            c.app,
		identity:       c.identity,
		identityLoaded: c.identityLoaded,
		body:           c.body,
		bodyErr:        c.bodyErr,
		bodyLoaded:     c.bodyLoaded,
	}
	child.request = isolateRoute(c.request.WithContext(context.WithValue(c.request.Context(), contextKey{}, child)))
	return child
}

// isolateRoute gives r its own chi routing state. The router recycles the
// original once the caller returns, while a detached handler may still be
// routing with it.
func isolateRoute(r *http.Request) *http.Request {
	src := chi.RouteContext(r.Context())
	if src == nil {
		return r
	}
	dst := chi.NewRouteContext()
	dst.Routes = src.Routes
	dst.RoutePath = src.RoutePath
	dst.RouteMethod = src.RouteMethod
	dst.URLParams.Keys = slices.Clone(src.URLParams.Keys)
	dst.URLParams.Values = slices.Clone(src.URLParams.Values)
	dst.RoutePatterns = slices.Clone(src.RoutePatterns)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, dst))
}

// gatedWriter forwards to parent until cut.
type gatedWriter struct {
	mu          sync.Mutex
	parent      http.ResponseWriter
	header      http.Header
	wroteHeader bool
	closed      bool
}

func (w *gatedWriter) Header() http.Header {
	return w.header
}

func (w *gatedWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.wroteHeader {
		return
	}
	w.writeHeader(code)
}

func (w *gatedWriter) writeHeader(code int) {
	w.wroteHeader = true
	maps.Copy(w.parent.Header(), w.header)
	w.parent.WriteHeader(code)
}

func (w *gatedWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, http.ErrHandlerTimeout
	}
	if !w.wroteHeader {
		w.writeHeader(http.StatusOK)
	}
	return w.parent.Write(b)
}

func (w *gatedWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if f, ok := w.parent.(http.Flusher); ok && !w.closed {
		f.Flush()
	}
}

func (w *gatedWriter) cut() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// parentContext names the embedded Context so the field does not collide
// with the Context method.
type parentContext = Context

// detachedContext serves Context implementations other than the App's own.
type detachedContext struct {
	parentContext
	request *http.Request
	rw      *ResponseWriter
}

func (c *detachedContext) Request() *http.Request          { return c.request }
func (c *detachedContext) Response() http.ResponseWriter   { return c.rw }
func (c *detachedContext) ResponseWriter() *ResponseWriter { return c.rw }
func (c *detachedContext) Context() context.Context        { return c.request.Context() }
func (c *detachedContext) Done() <-chan struct{}           { return c.request.Context().Done() }
func (c *detachedContext) Err() error                      { return c.request.Context().Err() }
func (c *detachedContext) Value(key any) any               { return c.request.Context().Value(key) }
func (c *detachedContext) Get(key any) any                 { return c.request.Context().Value(key) }
func (c *detachedContext) SetHeader(name, value string)    { c.rw.Header().Set(name, value) }
func (c *detachedContext) Written() bool                   { return c.rw.Written() }
func (c *detachedContext) JSON(code int, v any) error      { return writeJSON(c.rw, code, v) }
func (c *detachedContext) String(code int, s string) error { return writeString(c.rw, code, s) }
func (c *detachedContext) Respond(e response.Envelope) error {
	return response.Write(c.rw, http.StatusOK, e, c.FieldNames())
}
func (c *detachedContext) Deadline() (deadline time.Time, ok bool) {
	return c.request.Context().Deadline()
}

func (c *detachedContext) SetRequest(r *http.Request) {
	if r != nil {
		c.request = r
	}
}

func (c *detachedContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *detachedContext) NoContent(code int) error {
	c.rw.WriteHeader(code)
	return nil
}

func (c *detachedContext) Redirect(code int, url string) error {
	http.Redirect(c.rw, c.request, url, code)
	return nil
}
