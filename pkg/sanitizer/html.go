package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = sync.OnceValue(bluemonday.StrictPolicy)

	formattingPolicy = sync.OnceValue(func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowElements("p", "br", "strong", "b", "em", "i", "ul", "ol", "li", "code", "pre", "blockquote")
		p.AllowAttrs("href").OnElements("a")
		p.RequireNoFollowOnLinks(true)
		return p
	})
)

// StripHTML returns the text content of s with every tag removed.
// Entities are decoded so "Tom & Jerry" round-trips.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy().Sanitize(s)))
}

// SanitizeHTML keeps paragraph, emphasis, list and code markup and drops
// everything executable.
func SanitizeHTML(s string) string {
	return formattingPolicy().Sanitize(s)
}

// Sanitize applies policy to s. A nil policy leaves s untouched.
func Sanitize(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
