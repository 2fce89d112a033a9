// Package isbn checks International Standard Book Numbers.
package isbn

import "strings"

// Normalize strips an "ISBN" prefix and every character other than digits
// and the ISBN-10 check character X.
func Normalize(value string) string {
	value = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(value)), "ISBN")
	value = strings.TrimPrefix(value, ":")

	var b strings.Builder
	for _, r := range value {
		if ('0' <= r && r <= '9') || r == 'X' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether value is a well-formed ISBN-10 or ISBN-13 once
// normalized.
func Valid(value string) bool {
	n := Normalize(value)
	switch len(n) {
	case 10:
		return valid10(n)
	case 13:
		return valid13(n)
	default:
		return false
	}
}

// valid10 checks the mod 11 checksum with weights 10 down to 1.
func valid10(n string) bool {
	sum := 0
	for i, r := range n {
		digit := int(r - '0')
		if r == 'X' {
			if i != 9 {
				return false
			}
			digit = 10
		}
		sum += digit * (10 - i)
	}
	return sum%11 == 0
}

// valid13 checks the mod 10 checksum with alternating weights 1 and 3.
func valid13(n string) bool {
	sum := 0
	for i, r := range n {
		if r == 'X' {
			return false
		}
		digit := int(r - '0')
		if i%2 == 1 {
			digit *= 3
		}
		sum += digit
	}
	return sum%10 == 0
}
