package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeUsername trims whitespace and capitalizes the name: first rune
// upper, the rest lower. Applied both at signup and at login lookup so
// "alice", "ALICE" and "Alice" all resolve to the same account.
func NormalizeUsername(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + strings.ToLower(name[size:])
}
