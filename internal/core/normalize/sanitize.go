package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize removes runes that have no place in a stored record:
// NUL, ASCII controls other than '\n' '\r' '\t', DEL and the C1 block.
// Invalid UTF-8 bytes are dropped. Clean input is returned unchanged
func Sanitize(s string) string {
	i := firstBad(s)
	if i == len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if keep(r, size) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func firstBad(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !keep(r, size) {
			return i
		}
		i += size
	}
	return len(s)
}

func keep(r rune, size int) bool {
	switch {
	case r == utf8.RuneError && size == 1:
		return false
	case r < 0x20:
		return r == '\n' || r == '\r' || r == '\t'
	case r == 0x7F:
		return false
	case r >= 0x80 && r <= 0x9F:
		return false
	}
	return true
}
