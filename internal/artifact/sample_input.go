// Package artifact builds the derived documents written by sync. Every
// builder is a pure function; persistence belongs to the caller.
package artifact

import "strings"

// SampleInputFields is the fixed field order of a sample input document.
var SampleInputFields = []string{
	"title",
	"base_text",
	"product_context",
	"selected_segments",
	"tone",
	"format_id",
	"variants_per_segment",
	"variability_level",
	"constraints",
}

// SampleInputText renders kv in the key=value dialect read by
// content.ParseKeyValues. Absent fields are written with an empty value.
func SampleInputText(kv map[string]string) string {
	var sb strings.Builder
	for _, key := range SampleInputFields {
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(kv[key])
		sb.WriteString("\n")
	}
	return sb.String()
}
