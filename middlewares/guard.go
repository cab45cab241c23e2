package middlewares

import (
	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/pkg/exception"
)

// GuardConfig configures the access guards.
type GuardConfig struct {
	// Debug bypasses every guard.
	Debug bool `yaml:"debug" env:"DEBUG" envDefault:"false"`
}

// LoginRequired rejects requests without an authenticated identity with
// exception.LoginRequired.
func LoginRequired(cfg GuardConfig) internal.Middleware {
	return guard(cfg, func(internal.Identity) error { return nil })
}

// SuperuserRequired behaves like LoginRequired and additionally rejects
// authenticated non-superusers with exception.PermissionDenied.
func SuperuserRequired(cfg GuardConfig) internal.Middleware {
	return guard(cfg, func(id internal.Identity) error {
		if !id.IsSuperuser() {
			return exception.PermissionDenied("superuser required")
		}
		return nil
	})
}

func guard(cfg GuardConfig, check func(internal.Identity) error) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		if cfg.Debug {
			return next
		}
		return func(c internal.Context) error {
			id := c.Identity()
			if !internal.Authenticated(id) {
				return exception.LoginRequired()
			}
			if err := check(id); err != nil {
				return err
			}
			return next(c)
		}
	}
}
