// Package htmlutil prepares stored free text for display.
package htmlutil

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/locallibrary/catalog/pkg/validation"
)

// whitespacePattern matches runs of whitespace, including newlines.
var whitespacePattern = regexp.MustCompile(`\s+`)

// Excerpt returns the first maxRunes characters of stored (escaped) text as
// plain text on one line. Text that is cut ends at a word boundary followed by
// an ellipsis.
func Excerpt(stored string, maxRunes int) string {
	text := validation.Unescape(stored)
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:maxRunes])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
