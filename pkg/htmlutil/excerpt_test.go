package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcerpt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			max:      10,
			expected: "",
		},
		{
			name:     "short text unchanged",
			input:    "Spice must flow.",
			max:      50,
			expected: "Spice must flow.",
		},
		{
			name:     "unescapes stored entities",
			input:    "Paul &amp; Jessica &lt;flee&gt;",
			max:      50,
			expected: "Paul & Jessica <flee>",
		},
		{
			name:     "collapses whitespace",
			input:    "  Arrakis\n\n is   a desert\tplanet ",
			max:      50,
			expected: "Arrakis is a desert planet",
		},
		{
			name:     "cuts at a word boundary",
			input:    "He who controls the spice controls the universe.",
			max:      20,
			expected: "He who controls the…",
		},
		{
			name:     "trims trailing punctuation before the ellipsis",
			input:    "Dune, Messiah, Children",
			max:      15,
			expected: "Dune, Messiah…",
		},
		{
			name:     "no limit",
			input:    "Anything goes",
			max:      0,
			expected: "Anything goes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Excerpt(tt.input, tt.max))
		})
	}
}
