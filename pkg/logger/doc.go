// Package logger builds the slog loggers used across the service.
//
// Records are JSON on stdout by default. [ContextExtractor] functions add
// request-scoped attributes such as the request id at log time:
//
//	log := logger.New(middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "post created", slog.String("id", id))
//	// {"level":"INFO","msg":"post created","id":"...","request_id":"01J..."}
//
// [NewFromConfig] reads the level, format and Sentry settings from a
// [Config], usually parsed from LOG_LEVEL, LOG_FORMAT and SENTRY_* variables.
// With a DSN, warnings are stored as Sentry logs and errors open issues;
// without one the logger only writes to stdout.
//
// [NewNope] discards everything and is meant for tests.
package logger
