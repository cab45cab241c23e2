// Package sanitizer cleans user supplied strings with bluemonday policies.
//
// [StripHTML] removes every tag, [SanitizeHTML] keeps a small set of
// formatting tags, and [SanitizeStruct] applies either to struct fields
// tagged with `sanitize:"strict"`, `sanitize:"safe"` or `sanitize:"trim"`.
package sanitizer
