package textnorm

import "strings"

// Normalize replaces non-breaking spaces with regular spaces, collapses every
// run of whitespace into a single space and trims both ends.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// EscapeText escapes special characters for an iCalendar TEXT value (RFC 5545 3.3.11).
// Backslash must go first so the escapes added afterwards are not doubled.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// UnescapeText reverses EscapeText. Both \n and \N decode to a newline; an
// unknown escape or a trailing backslash is kept as is.
func UnescapeText(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}

		next := s[i+1]
		switch next {
		case '\\', ';', ',':
			b.WriteByte(next)
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(c)
			b.WriteByte(next)
		}
		i++
	}

	return b.String()
}
