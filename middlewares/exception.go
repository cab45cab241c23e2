package middlewares

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/pkg/exception"
	"github.com/dmitrymomot/restbase/pkg/logger"
	"github.com/dmitrymomot/restbase/pkg/response"
	"github.com/dmitrymomot/restbase/pkg/status"
	"github.com/dmitrymomot/restbase/pkg/store"
	"github.com/dmitrymomot/restbase/pkg/validator"
)

// ExceptionConfig configures the exception middleware.
type ExceptionConfig struct {
	FieldNames      *response.FieldNames    // Envelope field names (default: the App's)
	NotFound        func(error) bool        // Not-found matcher (default: store.ErrNotFound)
	Translate       validator.TranslateFunc // Rewrites validation messages before grouping
	NormalizeStatus bool                    // Send every envelope with HTTP 200 (default: true)
	StatusAsCode    bool                    // Report intercepted statuses with the status as code instead of Failed
}

// ExceptionOption configures ExceptionConfig.
type ExceptionOption func(*ExceptionConfig)

// WithFieldNames overrides the envelope field names.
func WithFieldNames(names response.FieldNames) ExceptionOption {
	return func(cfg *ExceptionConfig) {
		names = names.WithDefaults()
		cfg.FieldNames = &names
	}
}

// WithNormalizeStatus controls whether envelopes travel with HTTP 200 or
// with a status derived from the code.
func WithNormalizeStatus(normalize bool) ExceptionOption {
	return func(cfg *ExceptionConfig) {
		cfg.NormalizeStatus = normalize
	}
}

// WithStatusAsCode makes the envelope of an intercepted error status carry
// the status itself as its code, e.g. 404, instead of Failed.
func WithStatusAsCode(enabled bool) ExceptionOption {
	return func(cfg *ExceptionConfig) {
		cfg.StatusAsCode = enabled
	}
}

// WithNotFound sets the matcher for persistence not-found errors.
func WithNotFound(fn func(error) bool) ExceptionOption {
	return func(cfg *ExceptionConfig) {
		if fn != nil {
			cfg.NotFound = fn
		}
	}
}

// WithMessageTranslator translates validation messages that carry a key.
func WithMessageTranslator(fn validator.TranslateFunc) ExceptionOption {
	return func(cfg *ExceptionConfig) {
		cfg.Translate = fn
	}
}

func newExceptionConfig(opts ...ExceptionOption) *ExceptionConfig {
	cfg := &ExceptionConfig{
		NormalizeStatus: true,
		NotFound: func(err error) bool {
			return errors.Is(err, store.ErrNotFound)
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Exception returns middleware that turns every failure into an envelope
// with null data.
//
// Errors returned downstream are resolved with Dispatch. Error statuses
// written downstream (>= 400, e.g. the router's 404) are swallowed and
// replaced by a Failed envelope. Both are logged at error level; recovered
// panics are logged with their stack, which never reaches the client.
func Exception(opts ...ExceptionOption) internal.Middleware {
	cfg := newExceptionConfig(opts...)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			rw := c.ResponseWriter()
			rw.Intercept(isErrorStatus)
			err := next(c)
			intercepted := rw.Intercepted()
			rw.Reset()

			switch {
			case err != nil:
				msg, code := cfg.dispatch(err)
				attrs := []any{slog.Int("code", code), logger.Error(err)}
				if pe, ok := AsPanicError(err); ok && pe.Stack != nil {
					attrs = append(attrs, slog.String("stack", string(pe.Stack)))
				}
				c.LogError(msg, attrs...)
				if c.Written() {
					return nil
				}
				return cfg.write(c, HTTPStatus(code), response.Fail(msg, code))

			case intercepted != 0:
				msg := status.Failed.Render(map[string]string{
					"status_code": strconv.Itoa(intercepted),
					"msg":         http.StatusText(intercepted),
				})
				c.LogError(msg, slog.Int("status", intercepted))
				code := status.Failed.Value
				if cfg.StatusAsCode {
					code = intercepted
				}
				return cfg.write(c, intercepted, response.Fail(msg, code))
			}
			return nil
		}
	}
}

func (cfg *ExceptionConfig) write(c internal.Context, code int, e response.Envelope) error {
	names := c.FieldNames()
	if cfg.FieldNames != nil {
		names = *cfg.FieldNames
	}
	if cfg.NormalizeStatus {
		code = http.StatusOK
	}
	return response.Write(c.Response(), code, e, names)
}

// Dispatch resolves an error into an envelope message and code, first
// match wins:
//
//  1. *exception.Error: its rendered message and code
//  2. not-found: ObjectNotFound
//  3. validator.ValidationErrors: consecutive errors sharing a message are
//     grouped as "<msg>: [loc1, loc2]", groups joined with ", "
//  4. anything else: UncaughtException
func Dispatch(err error, opts ...ExceptionOption) (msg string, code int) {
	return newExceptionConfig(opts...).dispatch(err)
}

func (cfg *ExceptionConfig) dispatch(err error) (string, int) {
	if e, ok := exception.As(err); ok {
		return e.Error(), e.Code.Value
	}
	if cfg.NotFound(err) {
		return status.ObjectNotFound.Render(map[string]string{"msg": err.Error()}), status.ObjectNotFound.Value
	}
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		if cfg.Translate != nil {
			ve = append(validator.ValidationErrors(nil), ve...)
			ve.Translate(cfg.Translate)
		}
		return groupValidationErrors(ve), status.ValidationError.Value
	}
	return status.UncaughtException.Render(map[string]string{"msg": err.Error()}), status.UncaughtException.Value
}

// groupValidationErrors groups runs of equal messages, keeping order.
func groupValidationErrors(errs validator.ValidationErrors) string {
	groups := make([]string, 0, len(errs))
	for i := 0; i < len(errs); {
		var locs []string
		j := i
		for ; j < len(errs) && errs[j].Message == errs[i].Message; j++ {
			locs = append(locs, errs[j].Field)
		}
		groups = append(groups, fmt.Sprintf("%s: [%s]", errs[i].Message, strings.Join(locs, ", ")))
		i = j
	}
	return strings.Join(groups, ", ")
}

// HTTPStatus maps an envelope code to the status used when statuses are
// not normalized.
func HTTPStatus(code int) int {
	switch code {
	case status.Success.Value:
		return http.StatusOK
	case status.QueryParamMissing.Value, status.BodyParamMissing.Value,
		status.ValidationError.Value, status.PathParamMissing.Value:
		return http.StatusBadRequest
	case status.ObjectNotFound.Value:
		return http.StatusNotFound
	case status.LoginRequired.Value:
		return http.StatusUnauthorized
	case status.PermissionDenied.Value:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func isErrorStatus(code int) bool {
	return code >= http.StatusBadRequest
}
