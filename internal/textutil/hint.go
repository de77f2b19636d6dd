package textutil

import "regexp"

var hintWordPattern = regexp.MustCompile(`(\pL)(\pL+)`)

// Hint keeps the first letter of every word and wraps the remaining letters in
// a hint-tail span the reader can hide for memorization practice.
func Hint(text string) string {
	return hintWordPattern.ReplaceAllString(text, `$1<span class="hint-tail">$2</span>`)
}
