package prompt

import (
	"strconv"
	"strings"

	"github.com/kapu/segcraft-go/internal/domain"
)

const (
	unspecifiedContext = "Not specified"
	noLimit            = "no limit"
)

// BuildCaseBundle renders the generation prompt for one case. The embedded
// template is preferred; FallbackCaseBundle produces the same text when it
// cannot be rendered.
func BuildCaseBundle(input domain.CaseInput) string {
	data := NewCaseBundleData(input)
	rendered, err := DefaultPromptBuilder().Render(TemplateCaseBundle, data)
	if err != nil {
		return FallbackCaseBundle(data)
	}
	return rendered
}

func NewCaseBundleData(input domain.CaseInput) CaseBundleData {
	segments := make([]SegmentBlock, 0, len(input.Segments))
	for _, s := range input.Segments {
		segments = append(segments, SegmentBlock{
			Name:      s.Name,
			SegmentID: s.SegmentID,
			Who:       s.Who,
			Pains:     strings.Join(s.Pains, ", "),
			Triggers:  strings.Join(s.Triggers, ", "),
			Taboos:    strings.Join(s.Taboos, ", "),
			ToneHint:  s.ToneHint,
			CTAStyle:  s.CTAStyle,
		})
	}

	context := strings.TrimSpace(input.ProductContext)
	if context == "" {
		context = unspecifiedContext
	}

	f := input.Format
	return CaseBundleData{
		BaseText: input.BaseText,
		Context:  context,
		Language: input.Language,
		Tone:     string(input.Tone),
		Segments: segments,
		Format: FormatBlock{
			FormatID:       f.FormatID,
			Name:           f.Name,
			HeadlineMax:    limitText(f.Limits.HeadlineMax),
			BodyMax:        limitText(f.Limits.BodyMax),
			Notes:          f.Notes,
			OutputTemplate: f.OutputTemplate,
		},
		Constraints:        input.Constraints,
		VariantsPerSegment: input.VariantsPerSegment,
		VariabilityLevel:   string(input.Variability),
		SchemaHint:         SchemaHint,
		RiskTypes:          strings.Join(domain.KnownRiskTypes, ", "),
	}
}

func limitText(max int) string {
	if max <= 0 {
		return noLimit
	}
	return strconv.Itoa(max)
}
