package prompt

import (
	"fmt"
	"strings"
)

func FallbackCaseBundle(data CaseBundleData) string {
	segmentBlocks := make([]string, 0, len(data.Segments))
	for _, s := range data.Segments {
		segmentBlocks = append(segmentBlocks, fmt.Sprintf(
			"- Segment: %s (%s)\n  who: %s\n  pains: %s\n  triggers: %s\n  taboos: %s\n  tone_hint: %s\n  cta_style: %s",
			s.Name, s.SegmentID, s.Who, s.Pains, s.Triggers, s.Taboos, s.ToneHint, s.CTAStyle,
		))
	}

	constraints := "- None"
	if len(data.Constraints) > 0 {
		lines := make([]string, len(data.Constraints))
		for i, c := range data.Constraints {
			lines[i] = "- " + c
		}
		constraints = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`[ROLE]
You are a copy editor and marketer. Generate variations of the text for audience segments.
Do not invent facts. Respect the constraints and the length limits.
Return strictly JSON following the schema. No explanations outside the JSON.

[BASE_TEXT]
%s

[CONTEXT]
%s

[LANGUAGE]
%s

[TONE]
%s

[SEGMENTS_SELECTED]
%s

[FORMAT]
format_id: %s
name: %s
headline_max: %s
body_max: %s
notes: %s
output_template: %s

[CONSTRAINTS]
%s

[VARIANTS_PER_SEGMENT]
%d

[VARIABILITY_LEVEL]
%s

[OUTPUT_SCHEMA]
%s

Important:
1) segments.length must equal the number of selected segments.
2) copies.length must equal variants_per_segment.
3) Always compute char_count.
4) Use these risk types: %s.
5) If a text exceeds the limits, shorten it. If that is impossible, add format_overflow with a suggest_fix.
`,
		data.BaseText,
		data.Context,
		data.Language,
		data.Tone,
		strings.Join(segmentBlocks, "\n"),
		data.Format.FormatID,
		data.Format.Name,
		data.Format.HeadlineMax,
		data.Format.BodyMax,
		data.Format.Notes,
		data.Format.OutputTemplate,
		constraints,
		data.VariantsPerSegment,
		data.VariabilityLevel,
		data.SchemaHint,
		data.RiskTypes,
	)
}

func FallbackRepair(data RepairData) string {
	return fmt.Sprintf("Fix the JSON. Return ONLY valid JSON without markdown or explanations.\n\nValidation error:\n%s\n\nCurrent answer:\n%s\n",
		data.Cause, data.RawText)
}
