// Package schema turns loosely typed request mappings into validated data.
//
// A [Schema] is built from a Go struct type. Loading a mapping decodes every
// known key into the struct, reports missing required keys and type
// mismatches at their field location, sanitizes tagged strings, runs the
// struct's own Validate method, and dumps the result back to a mapping keyed
// by JSON names:
//
//	type Post struct {
//	    Title   string `json:"title" validate:"required" sanitize:"strict"`
//	    Content string `json:"content" validate:"required" sanitize:"safe"`
//	}
//
//	func (p Post) Validate() error {
//	    return validator.Apply(validator.MaxLenString("title", p.Title, 100))
//	}
//
//	data, err := schema.For[Post]().Load(payload)
//
// Failures are returned as [validator.ValidationErrors].
package schema
