package utils

import "unicode/utf8"

// Truncate cuts s to maxLen runes and appends an ellipsis when it was longer.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return Prefix(s, maxLen) + "..."
}

// Prefix returns at most n runes of s without splitting a multi-byte
// character and without adding an ellipsis.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
