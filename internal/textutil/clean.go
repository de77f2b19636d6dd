package textutil

import (
	"regexp"
	"strings"
)

var (
	footnotePattern   = regexp.MustCompile(`\[\^.*?\]`)
	strongPattern     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	emphasisPattern   = regexp.MustCompile(`\*(.+?)\*`)
	escapedPunct      = regexp.MustCompile(`\\([[:punct:]])`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// StripFootnotes removes markdown footnote references such as [^12].
func StripFootnotes(s string) string {
	return footnotePattern.ReplaceAllString(s, "")
}

// StripEmphasis unwraps **strong** and *emphasis* markers, keeping the text.
func StripEmphasis(s string) string {
	s = strongPattern.ReplaceAllString(s, "$1")
	return emphasisPattern.ReplaceAllString(s, "$1")
}

// UnescapeMarkdown drops the backslash in front of escaped punctuation (\. \* \').
func UnescapeMarkdown(s string) string {
	return escapedPunct.ReplaceAllString(s, "$1")
}

// CollapseSpaces replaces whitespace runs with one space and trims the result.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// CleanLine applies footnote removal, emphasis removal, unescaping and trimming
// in that order.
func CleanLine(s string) string {
	s = StripFootnotes(s)
	s = StripEmphasis(s)
	s = UnescapeMarkdown(s)
	return strings.TrimSpace(s)
}
