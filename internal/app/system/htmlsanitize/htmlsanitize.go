// Package htmlsanitize cleans operator-supplied HTML (the clinic notice
// banner and footer) before it is rendered into dashboard pages.
// It uses bluemonday to strip potentially dangerous HTML while preserving
// simple inline formatting and links.
package htmlsanitize

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy is the shared bluemonday policy for banner and footer snippets.
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// UGC is the base; banners never need tables, images, or data attributes.
		policy = bluemonday.UGCPolicy()
		policy.AllowElements("u", "s", "sub", "sup", "mark")
		policy.RequireNoReferrerOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return policy
}

// Sanitize cleans HTML input, removing scripts, event handlers, and unsafe URLs.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return getPolicy().Sanitize(html)
}

// IsPlainText reports whether content has no HTML tags.
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PrepareForDisplay returns content ready for a template. Plain text is
// escaped and wrapped in a paragraph; HTML is sanitized.
func PrepareForDisplay(content string) template.HTML {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	if IsPlainText(content) {
		escaped := template.HTMLEscapeString(content)
		escaped = strings.ReplaceAll(escaped, "\n", "<br>")
		return template.HTML("<p>" + escaped + "</p>")
	}
	return template.HTML(Sanitize(content))
}
