package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/restbase/pkg/health"
	"github.com/dmitrymomot/restbase/pkg/logger"
	"github.com/dmitrymomot/restbase/pkg/response"
	"github.com/dmitrymomot/restbase/pkg/status"
	"github.com/dmitrymomot/restbase/pkg/storage"
)

// Default server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App orchestrates the application lifecycle.
// It manages HTTP routing, middleware, and graceful shutdown.
// App is immutable after creation.
type App struct {
	root                    chi.Router
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	identity                IdentityFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	storage                 storage.Storage
	fieldNames              response.FieldNames
	jsonPost                bool
	middlewares             []Middleware
	handlers                []Handler
}

// New creates a new application with the given options.
//
// Example:
//
//	app := restbase.New(
//	    restbase.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Exception(),
//	        middlewares.Recover(),
//	    ),
//	    restbase.WithIdentity(bearer),
//	    restbase.WithHandlers(blog.NewHandler(posts)),
//	)
func New(opts ...Option) *App {
	a := &App{
		root:       chi.NewRouter(),
		router:     chi.NewRouter(),
		logger:     logger.NewNope(),
		fieldNames: response.DefaultFieldNames(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.setupRoutes()
	return a
}

// Router returns the chi.Router carrying the application routes.
func (a *App) Router() chi.Router {
	return a.router
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.root.ServeHTTP(w, r)
}

// Run starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8080",
//	    restbase.Logger(log),
//	    restbase.ShutdownHook(db.Shutdown(pool)),
//	)
func (a *App) Run(addr string, opts ...RunOption) error {
	return serve(a, addr, buildRunConfig(opts...))
}

func (a *App) setupRoutes() {
	notFound := a.notFoundHandler
	if notFound == nil {
		notFound = statusHandler(http.StatusNotFound)
	}
	methodNotAllowed := a.methodNotAllowedHandler
	if methodNotAllowed == nil {
		methodNotAllowed = statusHandler(http.StatusMethodNotAllowed)
	}

	// Global middleware must be registered before any route.
	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	a.router.NotFound(a.adaptHandler(notFound))
	a.router.MethodNotAllowed(a.adaptHandler(methodNotAllowed))

	if a.healthConfig != nil {
		opts := []health.Option{health.WithLogger(a.logger)}
		if a.healthConfig.timeout > 0 {
			opts = append(opts, health.WithTimeout(a.healthConfig.timeout))
		}
		a.root.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.root.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, opts...))
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}

	// Probes stay outside the application middleware so their status
	// codes reach the orchestrator untouched.
	a.root.Mount("/", a.router)
}

// statusHandler writes a bare status. The Exception middleware turns it
// into an envelope.
func statusHandler(code int) HandlerFunc {
	return func(c Context) error {
		http.Error(c.Response(), http.StatusText(code), code)
		return nil
	}
}

// handleError runs for errors no middleware consumed.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr != nil {
			a.logger.ErrorContext(c, "error handler failed", logger.Error(herr))
		}
		return
	}

	msg := status.UncaughtException.Render(map[string]string{"msg": err.Error()})
	a.logger.ErrorContext(c, msg, logger.Error(err))
	_ = response.Write(c.Response(), http.StatusInternalServerError, response.Fail(msg, status.UncaughtException.Value), a.fieldNames)
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
	timeout       time.Duration
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithHealthTimeout bounds a readiness run.
func WithHealthTimeout(d time.Duration) HealthOption {
	return func(c *healthConfig) {
		c.timeout = d
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during the readiness probe.
//
// Example:
//
//	restbase.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn func(context.Context) error) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
