package content

import "strings"

// ParseKeyValues reads key=value lines. Blank lines, #-comments and lines
// without '=' are skipped; only the first '=' separates key from value and a
// repeated key keeps its last value.
func ParseKeyValues(block string) map[string]string {
	result := make(map[string]string)
	for _, line := range splitLines(block) {
		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}
		result[key] = value
	}
	return result
}

func splitKeyValue(line string) (string, string, bool) {
	stripped := strings.TrimSpace(line)
	if isSkippable(stripped) {
		return "", "", false
	}
	key, value, found := strings.Cut(stripped, "=")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

func isSkippable(stripped string) bool {
	return stripped == "" || strings.HasPrefix(stripped, "#")
}
