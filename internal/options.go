package internal

import (
	"log/slog"

	"github.com/dmitrymomot/restbase/pkg/logger"
	"github.com/dmitrymomot/restbase/pkg/response"
	"github.com/dmitrymomot/restbase/pkg/storage"
)

// Option configures an App at construction.
type Option func(*App)

// WithMiddleware appends to the global chain. The first middleware wraps
// all later ones and every route.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers route declarers, set up in order by New.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithErrorHandler sets the handler for errors no middleware consumed.
// Without it such errors are written as an uncaught-exception envelope
// with status 500.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler replaces the unmatched-route response.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler replaces the response for a known path
// requested with the wrong method.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks mounts liveness and readiness probes outside the
// global middleware chain.
//
// Example:
//
//	restbase.WithHealthChecks(
//	    restbase.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    restbase.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger builds a JSON logger tagged with component. Extractors add
// request-scoped attributes such as the request ID.
//
// Example:
//
//	restbase.New(
//	    restbase.WithLogger("blog", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger uses l as is. A nil logger is ignored.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithIdentity sets the resolver behind Context.Identity.
// It runs lazily, at most once per request.
//
// Example:
//
//	restbase.WithIdentity(func(c restbase.Context) restbase.Identity {
//	    token, ok := restbase.FromBearerToken()(c)
//	    if !ok {
//	        return restbase.Anonymous
//	    }
//	    return tokens.Lookup(token)
//	})
func WithIdentity(fn IdentityFunc) Option {
	return func(a *App) {
		a.identity = fn
	}
}

// WithFieldNames renames the envelope fields. Empty names keep defaults.
func WithFieldNames(names response.FieldNames) Option {
	return func(a *App) {
		a.fieldNames = names.WithDefaults()
	}
}

// WithJSONPost decodes POST bodies sent as application/json like the
// bodies of other methods. Off by default: BodyParams of a POST is its
// form, and a JSON POST yields an empty mapping.
func WithJSONPost(enabled bool) Option {
	return func(a *App) {
		a.jsonPost = enabled
	}
}

// WithStorage configures file storage, reachable through Context.Storage.
func WithStorage(s storage.Storage) Option {
	return func(a *App) {
		a.storage = s
	}
}
