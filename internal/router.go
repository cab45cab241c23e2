package internal

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// Router declares routes. Route middleware listed after the handler runs
// inside the global chain, first listed outermost.
type Router interface {
	GET(path string, h HandlerFunc, mw ...Middleware)
	POST(path string, h HandlerFunc, mw ...Middleware)
	PUT(path string, h HandlerFunc, mw ...Middleware)
	PATCH(path string, h HandlerFunc, mw ...Middleware)
	DELETE(path string, h HandlerFunc, mw ...Middleware)
	Handle(method, path string, h HandlerFunc, mw ...Middleware)

	// Group shares middleware added with Use without a path prefix.
	Group(fn func(r Router))
	Route(pattern string, fn func(r Router))
	Use(mw ...Middleware)

	// Mount attaches a plain http.Handler. It does not see the request Context.
	Mount(pattern string, h http.Handler)
}

// routerAdapter wraps chi.Router to implement the Router interface.
type routerAdapter struct {
	router chi.Router
	app    *App
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodGet, path, h, mw...)
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPost, path, h, mw...)
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPut, path, h, mw...)
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPatch, path, h, mw...)
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodDelete, path, h, mw...)
}

func (r *routerAdapter) Handle(method, path string, h HandlerFunc, mw ...Middleware) {
	r.router.Method(method, path, r.wrap(h, mw...))
}

func (r *routerAdapter) sub(cr chi.Router) Router {
	return &routerAdapter{router: cr, app: r.app}
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) { fn(r.sub(cr)) })
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) { fn(r.sub(cr)) })
}

func (r *routerAdapter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.router.Use(r.app.adaptMiddleware(m))
	}
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

// wrap applies route middleware so the first one listed runs first.
func (r *routerAdapter) wrap(h HandlerFunc, mw ...Middleware) http.HandlerFunc {
	for _, m := range slices.Backward(mw) {
		h = m(h)
	}
	return r.app.adaptHandler(h)
}

// adaptHandler runs h on the request's shared Context. The error goes to
// the enclosing middleware, or to handleError at the outermost layer.
func (a *App) adaptHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		c, outer := a.acquire(w, req)
		a.finish(c, outer, h(c))
	}
}

// adaptMiddleware converts a Middleware to chi middleware. Every layer
// works on the same Context, and an error returned downstream surfaces
// as the return value of next.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			c, outer := a.acquire(w, req)
			h := mw(func(inner Context) error {
				// A middleware may hand a detached copy downstream.
				rc, ok := inner.(*requestContext)
				if !ok {
					rc = c
				}
				next.ServeHTTP(rc.responseWriter, rc.request)
				return rc.takeErr()
			})
			a.finish(c, outer, h(c))
		})
	}
}

// acquire returns the Context bound to the request, creating it on the
// outermost layer.
func (a *App) acquire(w http.ResponseWriter, r *http.Request) (*requestContext, bool) {
	if c, ok := r.Context().Value(contextKey{}).(*requestContext); ok {
		c.request = r
		return c, false
	}
	return newContext(w, r, a), true
}

func (a *App) finish(c *requestContext, outer bool, err error) {
	if err == nil {
		return
	}
	if !outer {
		c.err = err
		return
	}
	a.handleError(c, err)
}
