// Package response turns raw model text into a trusted domain.Response:
// extraction of the JSON object, structural decoding, invariant checks and
// format-limit enforcement.
package response

import (
	"encoding/json"
	"strings"

	"github.com/kapu/segcraft-go/pkg/errors"
)

const fence = "```"

// ExtractJSONObject returns the first complete JSON object in raw. Clean
// responses are returned as-is; otherwise the first '{' starts a brace scan
// that skips braces inside string literals, so trailing commentary is dropped.
func ExtractJSONObject(raw string) (string, error) {
	text := stripFence(strings.TrimSpace(raw))

	if isJSONObject(text) {
		return text, nil
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", errors.NewExtractionError("no JSON object in model output")
	}

	// ASCII delimiters never occur inside multi-byte UTF-8 sequences, so a
	// byte scan is safe.
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", errors.NewExtractionError("incomplete JSON object in model output")
}

// stripFence removes a leading ``` marker with its optional language tag and
// a trailing ``` marker.
func stripFence(text string) string {
	if !strings.HasPrefix(text, fence) {
		return text
	}
	text = strings.TrimLeft(text, "`")
	if newline := strings.IndexByte(text, '\n'); newline >= 0 {
		tag := strings.TrimSpace(text[:newline])
		if tag == "" || isLanguageTag(tag) {
			text = text[newline+1:]
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimRight(text, "`")
	return strings.TrimSpace(text)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

func isJSONObject(text string) bool {
	if !strings.HasPrefix(text, "{") {
		return false
	}
	return json.Valid([]byte(text))
}
