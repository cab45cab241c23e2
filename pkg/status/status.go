package status

import (
	"fmt"
	"regexp"
	"slices"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Code pairs a stable numeric identifier with a message template.
type Code struct {
	Template string
	Value    int
}

// Render substitutes {{name}} placeholders with values from ctx.
// It panics when a placeholder has no value or ctx carries an unused key.
func (c Code) Render(ctx map[string]string) string {
	used := make(map[string]struct{}, len(ctx))
	out := placeholderRe.ReplaceAllStringFunc(c.Template, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		v, ok := ctx[name]
		if !ok {
			panic(fmt.Sprintf("status: code %d: missing value for placeholder %q", c.Value, name))
		}
		used[name] = struct{}{}
		return v
	})
	for k := range ctx {
		if _, ok := used[k]; !ok {
			panic(fmt.Sprintf("status: code %d: unknown placeholder %q", c.Value, k))
		}
	}
	return out
}

// Placeholders returns the placeholder names used by the template, in order of appearance.
func (c Code) Placeholders() []string {
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(c.Template, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// String formats the code for logs: "[3] Query param `{{param}}` is required".
func (c Code) String() string {
	return fmt.Sprintf("[%d] %s", c.Value, c.Template)
}

// Registered codes. Numeric values never change.
var (
	Success           = Code{Template: "Success", Value: 0}
	UncaughtException = Code{Template: "Error: {{msg}}", Value: 1}
	Failed            = Code{Template: "Response failed with {{status_code}}: {{msg}}", Value: 2}
	QueryParamMissing = Code{Template: "Query param `{{param}}` is required", Value: 3}
	BodyParamMissing  = Code{Template: "Body param `{{param}}` is required", Value: 4}
	ValidationError   = Code{Template: "Validation error: {{msg}}", Value: 5}
	ObjectNotFound    = Code{Template: "Object not found: {{msg}}", Value: 6}
	PathParamMissing  = Code{Template: "Path param `{{param}}` is required", Value: 7}
	LoginRequired     = Code{Template: "Login required", Value: 8}
	PermissionDenied  = Code{Template: "Permission denied: {{reason}}", Value: 9}
)

var registry = []Code{
	Success,
	UncaughtException,
	Failed,
	QueryParamMissing,
	BodyParamMissing,
	ValidationError,
	ObjectNotFound,
	PathParamMissing,
	LoginRequired,
	PermissionDenied,
}

// All returns every registered code ordered by value.
func All() []Code {
	return slices.Clone(registry)
}

// Lookup returns the registered code with the given value.
func Lookup(value int) (Code, bool) {
	for _, c := range registry {
		if c.Value == value {
			return c, true
		}
	}
	return Code{}, false
}
