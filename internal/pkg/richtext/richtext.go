// Package richtext cleans user-supplied HTML produced by the editor before it
// is stored.
package richtext

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// Code blocks carry the highlighter language as a class.
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	return p
}

// Sanitize strips scripts, event handlers and unknown elements from html and
// trims surrounding whitespace.
func Sanitize(html string) string {
	return strings.TrimSpace(policy.Sanitize(html))
}

// IsBlank reports whether html has no visible text once tags are removed,
// e.g. "<p><br></p>" from an empty editor.
func IsBlank(html string) bool {
	return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(html)) == ""
}
