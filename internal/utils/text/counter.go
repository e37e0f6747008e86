// Package text provides utilities for text measurement and trimming.
// Counting runes instead of bytes keeps behavior consistent for
// multi-byte input (Japanese, emoji) across summarization providers.
package text

// CountRunes counts the number of Unicode characters (runes) in s.
func CountRunes(s string) int {
	return len([]rune(s))
}

// TruncateRunes returns s cut to at most max runes.
// Used for bounding transcript payloads before they reach provider prompts.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
