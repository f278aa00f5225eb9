package utils

import (
	"strings"
	"unicode"
)

// Slugify turns a display name into a URL-safe slug: lowercase ASCII letters
// and digits separated by single dashes. Returns "" when nothing usable
// remains.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
