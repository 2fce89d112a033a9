package isbn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    string
		expected bool
	}{
		{"9780441013593", true},
		{"978-0-316-76948-8", true},
		{"ISBN: 9780316769488", true},
		{"0316769487", true},
		{"080442957X", true},
		{"0-451-52493-4", true},
		{"9780316769489", false}, // bad checksum
		{"0316769488", false},    // bad checksum
		{"08044X9573", false},    // X only valid as the last ISBN-10 digit
		{"978031676948X", false},
		{"123456789", false},
		{"٩٧٨٠٤٤١٠١٣٥٩٣", false}, // Arabic-Indic digits
		{"978044101359٣", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Valid(tt.value))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "9780316769488", Normalize("978 0 316 76948 8"))
	assert.Equal(t, "9780316769488", Normalize("isbn:978-0-316-76948-8"))
	assert.Equal(t, "080442957X", Normalize("0-8044-2957-x"))
	assert.Equal(t, "978044101359", Normalize("978044101359٣"))
	assert.Empty(t, Normalize("９７８０４４１０１３５９３"))
}
