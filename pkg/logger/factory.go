package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the log level and output format.
type Config struct {
	Level  string       `env:"LOG_LEVEL" envDefault:"info" yaml:"level"`
	Format string       `env:"LOG_FORMAT" envDefault:"json" yaml:"format"`
	Sentry SentryConfig `envPrefix:"" yaml:"sentry"`
}

// New creates a JSON logger at info level writing to stdout.
func New(extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewContextHandler(newHandler(os.Stdout, Config{}), extractors...))
}

// NewFromConfig creates a logger from cfg. Records also go to Sentry
// when cfg.Sentry.DSN is set.
func NewFromConfig(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return newLogger(os.Stdout, cfg, extractors...)
}

func newLogger(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	h := newHandler(w, cfg)
	if sh := newSentryHandler(cfg.Sentry); sh != nil {
		h = fanout{h, sh}
	}
	return slog.New(NewContextHandler(h, extractors...))
}

func newHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Error returns the "error" attribute for err.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// NewNope returns a logger that drops every record.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
