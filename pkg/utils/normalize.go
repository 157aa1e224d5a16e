// Package utils provides helpers for matching user-supplied channel names.
package utils

import (
	"strings"
	"unicode"
)

// NormalizeChannelName folds a channel name to a lookup key by lowering case
// and dropping whitespace and punctuation.
func NormalizeChannelName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '&':
			b.WriteString("och")
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return b.String()
}
