package pivot

import "strings"

const maxTestCDLen = 8

// SanitizeTestCD sanitizes a derived *TESTCD value: strip to ASCII
// alphanumerics, uppercase, truncate to 8 chars, and prefix with
// domainPrefix when the result would otherwise start with a digit.
func SanitizeTestCD(raw, domainPrefix string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return s
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = domainPrefix + s
	}
	if len(s) > maxTestCDLen {
		s = s[:maxTestCDLen]
	}
	return s
}
