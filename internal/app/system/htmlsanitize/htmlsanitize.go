// Package htmlsanitize cleans rich-text content before it is persisted.
// Post bodies arrive from the summarization backend and from editors as
// HTML fragments; everything stored must already be safe to render.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = buildPolicy()

// buildPolicy extends the UGC baseline with the table and formatting
// elements rich-text editors emit.
func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowElements("u", "s", "sub", "sup", "mark")
	p.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption", "colgroup", "col")
	p.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("style").OnElements("table", "tr", "th", "td")

	return p
}

// Sanitize strips unsafe markup from an HTML fragment. Plain text passes
// through unchanged.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return strings.TrimSpace(policy.Sanitize(html))
}
