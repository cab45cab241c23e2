// Package internal provides the HTTP host of restbase: App, Context, Router
// and the server runtime, built on go-chi.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/restbase" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: routing, middleware, health probes and graceful shutdown
//   - Context: request/response access, body params, identity, envelope writing
//   - Router: interface handlers use to declare routes
//   - Handler: types that declare routes on a router
//   - HandlerFunc: route handler returning an error
//   - Middleware: wraps a HandlerFunc
//   - Identity / IdentityFunc: the request principal and its resolver
//
// # One Context per Request
//
// Global middleware, group middleware, route middleware and the handler all
// share one Context. An error returned by the handler travels back up the
// chain as the return value of next, so a single middleware (Exception in
// the middlewares package) can turn every outcome into an envelope:
//
//	app := internal.New(
//	    internal.WithMiddleware(middlewares.RequestID(), middlewares.Exception(), middlewares.Recover()),
//	    internal.WithHandlers(blogHandler),
//	)
//
// Errors no middleware consumed are written as an UncaughtException envelope
// with status 500, or passed to WithErrorHandler.
//
// # Body Params
//
// BodyParams reads the body once. POST requests give the form values (first
// value per key) unless the content type is JSON; other methods decode a
// JSON object. Numbers stay json.Number. The body remains readable.
//
// # Health Probes
//
// WithHealthChecks mounts /health/live and /health/ready next to the
// application router, outside its middleware.
//
// # Server Runtime
//
//	err := app.Run(":8080",
//	    internal.Logger(log),
//	    internal.StartupHook(migrate),
//	    internal.ShutdownHook(db.Shutdown(pool)),
//	)
package internal
