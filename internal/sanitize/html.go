package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// StrictPolicy removes all HTML tags and attributes.
	StrictPolicy = bluemonday.StrictPolicy()

	// UGCPolicy keeps basic formatting and drops scripts, frames and handlers.
	UGCPolicy = bluemonday.UGCPolicy()
)

// Text strips all HTML and surrounding whitespace.
// Entities escaped by the policy are decoded again since the result is
// stored as plain text and served as JSON.
// Use for: titles, colors.
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(input)))
}

// HTML sanitizes HTML content, allowing safe formatting tags.
// Use for: event descriptions.
func HTML(input string) string {
	return strings.TrimSpace(UGCPolicy.Sanitize(input))
}
