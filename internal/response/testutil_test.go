package response

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// validPayload returns a minimal valid response with the given number of
// segments and copies per segment.
func validPayload(t *testing.T, segments, copies int) map[string]any {
	t.Helper()

	segs := make([]any, 0, segments)
	for i := 0; i < segments; i++ {
		variants := make([]any, 0, copies)
		for j := 0; j < copies; j++ {
			variants = append(variants, map[string]any{
				"headline":   "Заголовок",
				"body":       "Текст объявления",
				"cta":        "Купить",
				"rationale":  "why",
				"char_count": map[string]any{"headline": 999, "body": 1},
				"risk_flags": []any{},
			})
		}
		segs = append(segs, map[string]any{
			"segment_id":       "seg_" + strings.Repeat("x", i+1),
			"segment_name":     "Segment",
			"core_insight":     "insight",
			"trigger":          "trigger",
			"angle":            "angle",
			"copies":           variants,
			"differences_note": "note",
		})
	}

	return map[string]any{
		"version": "1.0",
		"input_echo": map[string]any{
			"base_text":            "base",
			"tone":                 "friendly",
			"format_id":            "yadirect_text",
			"variants_per_segment": copies,
			"constraints":          []any{},
			"assumptions":          []any{},
		},
		"questions":    []any{map[string]any{"q": "q?", "why": "because", "priority": "P1"}},
		"segments":     segs,
		"global_risks": []any{},
		"export_hints": map[string]any{"how_to_use": []any{"a"}, "ab_test_suggestions": []any{}},
		"exec_summary": map[string]any{"for_marketer": "m", "for_non_tech_manager": "n"},
	}
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
