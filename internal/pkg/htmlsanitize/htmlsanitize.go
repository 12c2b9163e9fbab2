// Package htmlsanitize cleans admin-authored rich text before it is stored
// or rendered.
package htmlsanitize

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
		policy.AllowElements("u", "s", "sub", "sup", "mark")
		policy.AllowElements("table", "thead", "tbody", "tr", "th", "td")
		policy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
		policy.AllowAttrs("class").OnElements("p", "span", "div", "ul", "ol", "li", "table")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return policy
}

// Sanitize strips scripts, event handlers and other unsafe markup.
func Sanitize(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	return strings.TrimSpace(getPolicy().Sanitize(html))
}

// SanitizePtr sanitizes an optional field. Blank results become nil.
func SanitizePtr(html *string) *string {
	if html == nil {
		return nil
	}
	clean := Sanitize(*html)
	if clean == "" {
		return nil
	}
	return &clean
}

// IsPlainText reports whether content carries no markup.
func IsPlainText(content string) bool {
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PrepareForDisplay returns content ready for templates. Plain text is
// escaped and given paragraph breaks; HTML is sanitized again.
func PrepareForDisplay(content string) template.HTML {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if IsPlainText(content) {
		escaped := template.HTMLEscapeString(strings.TrimSpace(content))
		escaped = strings.ReplaceAll(escaped, "\n\n", "</p><p>")
		escaped = strings.ReplaceAll(escaped, "\n", "<br>")
		return template.HTML("<p>" + escaped + "</p>")
	}
	return template.HTML(Sanitize(content))
}
