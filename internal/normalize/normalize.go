package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Key normalizes a username for case-insensitive lookup and uniqueness:
// strip diacritics, lowercase, drop everything that is not a-z or 0-9.
// Recomputed on every write, never trusted from caller input.
func Key(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}

	decomposed := norm.NFD.String(value)
	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Spaces collapses runs of whitespace into single spaces and trims the ends.
func Spaces(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
