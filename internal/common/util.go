package common

import "strings"

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// RuneLen returns the number of characters in s. Length limits on stored
// fields are expressed in characters, not bytes.
func RuneLen(s string) int {
	return len([]rune(s))
}
