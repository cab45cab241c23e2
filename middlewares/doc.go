// Package middlewares provides the HTTP middleware of restbase applications.
//
// # Exception
//
// Exception turns every failure into an envelope with null data. Returned
// errors are resolved by Dispatch: exception errors keep their code,
// store.ErrNotFound becomes ObjectNotFound, validation errors are grouped
// by message as ValidationError and anything else is an UncaughtException.
// Error statuses written downstream, such as the router's 404, are
// replaced by a Failed envelope. Envelopes are sent with HTTP 200 unless
// WithNormalizeStatus(false) is given.
//
// # Guards
//
// LoginRequired and SuperuserRequired check the request identity and fail
// with LoginRequired (8) or PermissionDenied (9). GuardConfig.Debug turns
// both into no-ops.
//
//	r.POST("/blogs", create, middlewares.SuperuserRequired(cfg.Guard))
//
// # Required Params
//
// QueryParams, BodyParams and PathParams fail with the matching "param is
// required" code on the first missing name, in the order given:
//
//	r.GET("/search", search, middlewares.QueryParams("q"))
//
// # Request ID, Recover, Timeout
//
// RequestID assigns a ULID to each request unless an upstream header
// carries one. Use RequestIDExtractor with WithLogger to add request_id to
// every log line. Recover turns panics into *PanicError and Timeout cancels
// the request context and returns *TimeoutError once it expires.
//
// Recommended order:
//
//	app := restbase.New(
//	    restbase.WithLogger("api", middlewares.RequestIDExtractor()),
//	    restbase.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Exception(),
//	        middlewares.Recover(),
//	        middlewares.Timeout(30*time.Second),
//	    ),
//	)
package middlewares
