// Package email derives display names from email addresses. The report
// header needs a Name even for accounts that never set one.
package email

import (
	"strings"
	"unicode"
)

// DeriveNameFromEmail splits the local part on common separators and
// returns capitalized (first, last) parts. Missing parts fall back to
// "User" so the result is always printable.
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return fallbackName, fallbackName
	}

	first := capitalize(parts[0])
	last := fallbackName
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

const fallbackName = "User"

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
