package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	vietnameseTitle = cases.Title(language.Vietnamese)
	vietnameseLower = cases.Lower(language.Vietnamese)
	vietnameseUpper = cases.Upper(language.Vietnamese)
)

// IsAllUpper reports whether s contains at least one cased letter and no
// lowercase letters.
func IsAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// TitleCase converts s to Vietnamese title case.
func TitleCase(s string) string {
	return vietnameseTitle.String(s)
}

// TitleIfUpper title-cases s only when it is entirely uppercase.
func TitleIfUpper(s string) string {
	return Ternary(IsAllUpper(s), TitleCase(s), s)
}

// CapitalizeFirst uppercases the first rune and lowercases the rest.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return vietnameseUpper.String(string(r)) + vietnameseLower.String(s[size:])
}

// Capitalize returns s with only its first rune uppercased. It is used to turn
// label prefixes such as "pc" into "Pc".
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}
