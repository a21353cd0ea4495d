package schedule

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize collapses every run of whitespace or control characters into a single space,
// trims both ends and returns the text in NFC form.
func Normalize(text string) string {
	words := strings.FieldsFunc(text, isBlank)
	return norm.NFC.String(strings.Join(words, " "))
}

func isBlank(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}
