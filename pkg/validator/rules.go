package validator

import (
	"fmt"
	"net/mail"
	"slices"
	"unicode/utf8"
)

// Rule pairs a check with the error reported when it fails.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply evaluates rules in order and returns ValidationErrors listing every
// failed rule, or nil when all pass.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if r.Check != nil && !r.Check() {
			errs = append(errs, r.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Fail builds an error-only rule that always fails.
// Useful to report failures detected outside the rule set, such as decode errors.
func Fail(field, message, key string, values map[string]any) Rule {
	return Rule{
		Check: func() bool { return false },
		Error: newError(field, message, key, values),
	}
}

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func newError(field, message, key string, values map[string]any) ValidationError {
	if values == nil {
		values = map[string]any{}
	}
	values["field"] = field
	return ValidationError{
		Field:             field,
		Message:           message,
		TranslationKey:    key,
		TranslationValues: values,
	}
}

func required(field string, ok func() bool) Rule {
	return Rule{
		Check: ok,
		Error: newError(field, "field required", "validation.required", nil),
	}
}

// Required fails when present is false. Use it for keys missing from an input mapping.
func Required(field string, present bool) Rule {
	return required(field, func() bool { return present })
}

// RequiredString fails on an empty string.
func RequiredString(field, value string) Rule {
	return required(field, func() bool { return value != "" })
}

// RequiredNum fails on a zero number.
func RequiredNum[T number](field string, value T) Rule {
	return required(field, func() bool { return value != 0 })
}

// RequiredSlice fails on an empty slice.
func RequiredSlice[T any](field string, value []T) Rule {
	return required(field, func() bool { return len(value) > 0 })
}

// RequiredMap fails on an empty map.
func RequiredMap[K comparable, V any](field string, value map[K]V) Rule {
	return required(field, func() bool { return len(value) > 0 })
}

// MinLenString fails when value has fewer than n characters.
func MinLenString(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= n },
		Error: newError(field,
			fmt.Sprintf("ensure this value has at least %d characters", n),
			"validation.min_length", map[string]any{"min": n}),
	}
}

// MaxLenString fails when value has more than n characters.
func MaxLenString(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= n },
		Error: newError(field,
			fmt.Sprintf("ensure this value has at most %d characters", n),
			"validation.max_length", map[string]any{"max": n}),
	}
}

// LenString fails unless value has exactly n characters.
func LenString(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) == n },
		Error: newError(field,
			fmt.Sprintf("ensure this value has exactly %d characters", n),
			"validation.exact_length", map[string]any{"length": n}),
	}
}

// MaxLenSlice fails when value has more than n items.
func MaxLenSlice[T any](field string, value []T, n int) Rule {
	return Rule{
		Check: func() bool { return len(value) <= n },
		Error: newError(field,
			fmt.Sprintf("ensure this value has at most %d items", n),
			"validation.max_items", map[string]any{"max": n}),
	}
}

// MinNum fails when value is below lowest.
func MinNum[T number](field string, value, lowest T) Rule {
	return Rule{
		Check: func() bool { return value >= lowest },
		Error: newError(field,
			fmt.Sprintf("ensure this value is greater than or equal to %v", lowest),
			"validation.min", map[string]any{"min": lowest}),
	}
}

// MaxNum fails when value is above highest.
func MaxNum[T number](field string, value, highest T) Rule {
	return Rule{
		Check: func() bool { return value <= highest },
		Error: newError(field,
			fmt.Sprintf("ensure this value is less than or equal to %v", highest),
			"validation.max", map[string]any{"max": highest}),
	}
}

// Email fails when value is not a bare email address.
// Empty values pass; combine with RequiredString when mandatory.
func Email(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			addr, err := mail.ParseAddress(value)
			return err == nil && addr.Address == value
		},
		Error: newError(field, "value is not a valid email address", "validation.email", nil),
	}
}

// OneOf fails when value is not one of allowed.
func OneOf[T comparable](field string, value T, allowed ...T) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: newError(field,
			fmt.Sprintf("value is not a valid enumeration member; permitted: %v", allowed),
			"validation.one_of", map[string]any{"allowed": allowed}),
	}
}
