package audiocache

import (
	"regexp"
	"strings"
)

var headingTemplate = regexp.MustCompile(`^<h[1-6]`)

// skipReason returns why a segment is never synthesized, or "" when it should be.
func skipReason(normalized, label, html string) string {
	switch {
	case strings.TrimSpace(normalized) == "":
		return "empty_text"
	case strings.HasPrefix(label, "note-"):
		return "note"
	case strings.HasSuffix(label, "-name"):
		return "rule_name"
	case label == "title" || label == "subtitle":
		return "title"
	case headingTemplate.MatchString(html):
		return "heading"
	default:
		return ""
	}
}
