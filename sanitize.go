package dlog

import (
	"strings"
	"unicode"
)

const hexChars = "0123456789abcdef"

// sanitizeLine escapes control characters with JSON-style backslash
// sequences so that one logical record always occupies exactly one line in
// the sink file. The diagnostics format depends on this: crash detection
// parses the last line of the file, and an embedded newline in free text
// would shift the |<depth> suffix onto a line of its own.
func sanitizeLine(s string) string {
	if !strings.ContainsFunc(s, unicode.IsControl) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
			continue
		}
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			// Control runes are confined to the Latin-1 range
			b.WriteString(`\u00`)
			b.WriteByte(hexChars[(r>>4)&0xF])
			b.WriteByte(hexChars[r&0xF])
		}
	}
	return b.String()
}
