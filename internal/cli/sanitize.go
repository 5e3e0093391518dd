package cli

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxMessageSize bounds a single error message echoed to the terminal.
const maxMessageSize = 4096

// sanitize makes text taken from a document safe to print: invalid UTF-8 is
// replaced, control characters (ANSI escapes, NUL, BEL) are stripped and
// overly long messages are truncated. Newlines and tabs are kept.
func sanitize(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}

	// Fast path: if no control chars, keep as is.
	clean := true
	for _, r := range s {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if !clean {
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			if !unicode.IsControl(r) || isSafeControl(r) {
				b.WriteRune(r)
			}
		}
		s = b.String()
	}

	if len(s) > maxMessageSize {
		cut := maxMessageSize
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "…"
	}
	return s
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t'
}
