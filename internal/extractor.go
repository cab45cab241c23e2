package internal

import (
	"fmt"
	"strings"
)

// ExtractorSource reads one candidate value from a request. An empty value
// is reported as missing.
type ExtractorSource = func(Context) (string, bool)

// Extractor reads a value from the first source that has one, e.g. a
// primary key from the path and then the query string.
type Extractor struct {
	sources []ExtractorSource
}

func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract returns the first non-empty value, or ("", false).
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func source(read func(Context) string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := read(c)
		return v, v != ""
	}
}

func FromHeader(name string) ExtractorSource {
	return source(func(c Context) string { return c.Header(name) })
}

func FromQuery(name string) ExtractorSource {
	return source(func(c Context) string { return c.Query(name) })
}

// FromParam reads a URL path parameter.
func FromParam(name string) ExtractorSource {
	return source(func(c Context) string { return c.Param(name) })
}

func FromForm(name string) ExtractorSource {
	return source(func(c Context) string { return c.Form(name) })
}

// FromBody reads a scalar field of Context.BodyParams. Objects, arrays and
// undecodable bodies count as missing.
func FromBody(name string) ExtractorSource {
	return source(func(c Context) string {
		body, err := c.BodyParams()
		if err != nil {
			return ""
		}
		switch v := body[name].(type) {
		case nil, map[string]any, []any:
			return ""
		case string:
			return v
		default:
			return fmt.Sprint(v)
		}
	})
}

// FromBearerToken reads the token of an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func FromBearerToken() ExtractorSource {
	return source(func(c Context) string {
		scheme, token, ok := strings.Cut(c.Header("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	})
}
