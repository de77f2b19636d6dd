package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SilenceException is the one sentence whose quotes are never split.
const SilenceException = "Do thái độ im lặng, tôi sẽ nhận biết về các đại đức rằng: '(Các vị) được trong sạch.'"

// SplitSentences cuts text at every whitespace run that follows '.', '?' or
// '!'. Parts are trimmed and empty parts dropped.
func SplitSentences(text string) []string {
	var (
		parts []string
		start int
		prev  rune
	)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) && (prev == '.' || prev == '?' || prev == '!') {
			parts = appendTrimmed(parts, text[start:i])
			j := i
			for j < len(text) {
				r2, size2 := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += size2
			}
			start = j
			i = j
			prev = ' '
			continue
		}
		prev = r
		i += size
	}
	return appendTrimmed(parts, text[start:])
}

const quoteMarker = "\x00"

// SplitQuotes separates single-quoted clauses from the surrounding text. A
// quote opens a new part when it follows whitespace or starts the string, and
// closes the current part when it is followed by whitespace, '.', ',', ';',
// ':' or the end of the string. The SilenceException sentence is returned
// unchanged.
func SplitQuotes(sentence string) []string {
	if strings.Contains(sentence, SilenceException) {
		return appendTrimmed(nil, sentence)
	}
	var b strings.Builder
	b.Grow(len(sentence) + 8)
	for i := 0; i < len(sentence); {
		r, size := utf8.DecodeRuneInString(sentence[i:])
		if r != '\'' {
			b.WriteString(sentence[i : i+size])
			i += size
			continue
		}
		if i == 0 {
			b.WriteString(quoteMarker)
		} else if before, _ := utf8.DecodeLastRuneInString(sentence[:i]); unicode.IsSpace(before) {
			b.WriteString(quoteMarker)
		}
		b.WriteRune(r)
		i += size
		if i == len(sentence) {
			b.WriteString(quoteMarker)
			continue
		}
		if after, _ := utf8.DecodeRuneInString(sentence[i:]); unicode.IsSpace(after) || strings.ContainsRune(".,;:", after) {
			b.WriteString(quoteMarker)
		}
	}

	var parts []string
	for _, part := range strings.Split(b.String(), quoteMarker) {
		parts = appendTrimmed(parts, part)
	}
	return parts
}

func appendTrimmed(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		parts = append(parts, s)
	}
	return parts
}
