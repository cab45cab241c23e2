package internal

// Handler declares routes on a router.
//
// Example:
//
//	type BlogHandler struct {
//	    posts store.Repository[Post]
//	}
//
//	func (h *BlogHandler) Routes(r restbase.Router) {
//	    r.GET("/blogs", h.list)
//	    r.POST("/blogs", h.create, middlewares.SuperuserRequired(guard))
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands it to the Exception middleware,
// or to the App error handler when no middleware consumed it.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
//
// Example:
//
//	func Audit(next restbase.HandlerFunc) restbase.HandlerFunc {
//	    return func(c restbase.Context) error {
//	        err := next(c)
//	        c.LogInfo("audit", "path", c.Request().URL.Path, "failed", err != nil)
//	        return err
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors that reach the top of the chain.
type ErrorHandler func(Context, error) error
