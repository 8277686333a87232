package utils

import "strings"

// NormalizeQuery canonicalizes raw query text: lower-cased, leading and
// trailing whitespace removed, internal whitespace runs collapsed to a
// single space. Every character that survives is kept as-is; there is
// no alphabet filter. Equality of normalized queries is plain string
// equality.
func NormalizeQuery(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

// FormatWithCommas renders n with thousands separators for CLI output.
func FormatWithCommas(n int) string {
	s := []byte(nil)
	neg := n < 0
	if neg {
		n = -n
	}
	if n == 0 {
		return "0"
	}
	for digits := 0; n > 0; digits++ {
		if digits > 0 && digits%3 == 0 {
			s = append(s, ',')
		}
		s = append(s, byte('0'+n%10))
		n /= 10
	}
	if neg {
		s = append(s, '-')
	}
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return string(s)
}
