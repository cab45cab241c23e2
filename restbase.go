package restbase

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/pkg/logger"
	"github.com/dmitrymomot/restbase/pkg/response"
	"github.com/dmitrymomot/restbase/pkg/storage"
)

// Type aliases - public API
type (
	// App orchestrates routing, middleware, health probes and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors no middleware consumed.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// Identity is the principal of a request.
	Identity = internal.Identity

	// IdentityFunc resolves the identity of a request.
	IdentityFunc = internal.IdentityFunc

	// User is a basic Identity.
	User = internal.User

	// ResponseWriter wraps http.ResponseWriter to track and intercept the response.
	ResponseWriter = internal.ResponseWriter

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// Extractor reads a value from the first source that has one.
	Extractor = internal.Extractor

	// ExtractorSource is a single place a value can be read from.
	ExtractorSource = internal.ExtractorSource
)

// Anonymous is the unauthenticated identity.
var Anonymous = internal.Anonymous

// ErrBodyNotObject is returned by Context.BodyParams for non-object JSON bodies.
var ErrBodyNotObject = internal.ErrBodyNotObject

// New creates a new application with the given options.
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithMiddleware adds global middleware, run in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithErrorHandler handles errors that reach the top of the chain.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks mounts liveness and readiness probes.
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a JSON logger for the component with the given extractors.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger uses l as the application logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithIdentity sets the resolver behind Context.Identity.
func WithIdentity(fn IdentityFunc) Option {
	return internal.WithIdentity(fn)
}

// WithFieldNames renames the envelope fields.
func WithFieldNames(names response.FieldNames) Option {
	return internal.WithFieldNames(names)
}

// WithJSONPost lets BodyParams decode JSON POST bodies.
func WithJSONPost(enabled bool) Option {
	return internal.WithJSONPost(enabled)
}

// WithStorage makes s available through Context.Storage.
func WithStorage(s storage.Storage) Option {
	return internal.WithStorage(s)
}

// Health options

// WithLivenessPath overrides /health/live.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath overrides /health/ready.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithHealthTimeout bounds a readiness run.
func WithHealthTimeout(d time.Duration) HealthOption {
	return internal.WithHealthTimeout(d)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn func(context.Context) error) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the runtime logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the server listens. An error aborts Run.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn after the server stopped.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context; cancelling it stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Helpers

// ContextValue returns the typed value stored under key, or the zero value.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param returns a typed path parameter.
func Param[T internal.Scalar](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Query returns a typed query parameter.
func Query[T internal.Scalar](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault returns a typed query parameter or defaultValue.
func QueryDefault[T internal.Scalar](c Context, name string, defaultValue T) T {
	return internal.QueryDefault[T](c, name, defaultValue)
}

// LookupQuery returns a typed query parameter and whether it was sent.
func LookupQuery[T internal.Scalar](c Context, name string) (T, bool, error) {
	return internal.LookupQuery[T](c, name)
}

// Extractors

// NewExtractor tries sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return internal.FromHeader(name)
}

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource {
	return internal.FromQuery(name)
}

// FromParam reads a path parameter.
func FromParam(name string) ExtractorSource {
	return internal.FromParam(name)
}

// FromForm reads a form value.
func FromForm(name string) ExtractorSource {
	return internal.FromForm(name)
}

// FromBody reads a scalar body field.
func FromBody(name string) ExtractorSource {
	return internal.FromBody(name)
}

// FromBearerToken reads the token of an "Authorization: Bearer" header.
func FromBearerToken() ExtractorSource {
	return internal.FromBearerToken()
}
