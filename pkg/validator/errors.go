package validator

import (
	"errors"
	"strings"
)

// ValidationError describes one failed rule.
// Field is the location of the failing value ("title", "author.name").
type ValidationError struct {
	TranslationValues map[string]any
	Field             string
	Message           string
	TranslationKey    string
}

// ValidationErrors is an ordered list of validation failures.
type ValidationErrors []ValidationError

// TranslateFunc resolves a translation key with its values into a message.
type TranslateFunc func(key string, values map[string]any) string

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any error is attached to the field.
func (e ValidationErrors) Has(field string) bool {
	for _, v := range e {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Get returns the messages attached to the field.
func (e ValidationErrors) Get(field string) []string {
	var msgs []string
	for _, v := range e {
		if v.Field == field {
			msgs = append(msgs, v.Message)
		}
	}
	return msgs
}

// GetErrors returns the errors attached to the field.
func (e ValidationErrors) GetErrors(field string) []ValidationError {
	var out []ValidationError
	for _, v := range e {
		if v.Field == field {
			out = append(out, v)
		}
	}
	return out
}

// Translate rewrites messages in place using fn.
// Errors without a translation key keep their message.
func (e ValidationErrors) Translate(fn TranslateFunc) {
	if fn == nil {
		return
	}
	for i := range e {
		if e[i].TranslationKey == "" {
			continue
		}
		e[i].Message = fn(e[i].TranslationKey, e[i].TranslationValues)
	}
}

// IsValidationError reports whether err is or wraps ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// ExtractValidationErrors returns the ValidationErrors in err's chain, or nil.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
