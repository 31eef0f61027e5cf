package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RuneLen counts characters, not bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// TruncateRunes cuts s to at most maxRunes characters and strips trailing
// whitespace from the result. Strings already within the limit are returned
// unchanged.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes < 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:maxRunes]), unicode.IsSpace)
}

// Preview shortens s for log fields, appending "..." when cut.
func Preview(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// SplitList splits value on sep, trims every item and drops empty ones.
// The result is never nil.
func SplitList(value, sep string) []string {
	result := []string{}
	if strings.TrimSpace(value) == "" {
		return result
	}
	for _, part := range strings.Split(value, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
