package tgui

import "unicode/utf8"

// TruncRunes returns s truncated to at most n runes, with "…" appended when
// something was cut. Truncate before escaping so escapes are never split.
func TruncRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n-1 {
			return s[:i] + "…"
		}
		count++
	}
	return s
}
