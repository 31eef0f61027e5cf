package generation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kapu/segcraft-go/internal/catalog"
	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/internal/service/ai"
)

type reply struct {
	text string
	err  error
}

// scriptedModel returns its replies in order and records every prompt.
type scriptedModel struct {
	replies []reply
	prompts []string
	presets []ai.ModelPreset
}

func (m *scriptedModel) Generate(_ context.Context, prompt string, preset ai.ModelPreset) (string, *ai.GenerateMetadata, error) {
	m.prompts = append(m.prompts, prompt)
	m.presets = append(m.presets, preset)
	if len(m.prompts) > len(m.replies) {
		panic("scriptedModel: unexpected call")
	}
	r := m.replies[len(m.prompts)-1]
	if r.err != nil {
		return "", nil, r.err
	}
	return r.text, &ai.GenerateMetadata{Provider: "stub", Model: "stub-1"}, nil
}

func buildResponse(formatID string, segmentIDs []string, variants int, body string) *domain.Response {
	resp := &domain.Response{
		Version: "1.0",
		InputEcho: domain.InputEcho{
			BaseText:           "base",
			Tone:               domain.ToneNeutral,
			FormatID:           formatID,
			VariantsPerSegment: variants,
			Constraints:        []string{},
			Assumptions:        []string{},
		},
		Questions:   []domain.Question{},
		GlobalRisks: []domain.GlobalRisk{},
		ExportHints: domain.ExportHints{HowToUse: []string{"paste"}, ABTestSuggestions: []string{}},
		ExecSummary: domain.ExecSummary{ForMarketer: "m", ForNonTechManager: "n"},
	}
	for _, id := range segmentIDs {
		seg := domain.SegmentOutput{
			SegmentID:       id,
			SegmentName:     id,
			CoreInsight:     "insight",
			Trigger:         "trigger",
			Angle:           "angle",
			DifferencesNote: "note",
		}
		for i := 0; i < variants; i++ {
			seg.Copies = append(seg.Copies, domain.CopyVariant{
				Headline:  "Заголовок",
				Body:      body,
				CTA:       "Купить",
				Rationale: "why",
				RiskFlags: []domain.RiskFlag{},
			})
		}
		resp.Segments = append(resp.Segments, seg)
	}
	return resp
}

func responseJSON(t *testing.T, resp *domain.Response) string {
	t.Helper()
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(data)
}

func testSamples(t *testing.T) *SampleStore {
	t.Helper()
	primary := responseJSON(t, buildResponse("yadirect_text", []string{"students", "it", "freelancers"}, 2, "primary"))
	secondary := responseJSON(t, buildResponse("vk_ads", []string{"parents"}, 1, "secondary"))
	return NewSampleStore([]byte(primary), []byte(secondary))
}

func testInput() domain.CaseInput {
	return domain.CaseInput{
		BaseText: "Курс по аналитике",
		Segments: []domain.Segment{
			{SegmentID: "students", Name: "Students"},
			{SegmentID: "it", Name: "IT"},
			{SegmentID: "freelancers", Name: "Freelancers"},
		},
		Format: domain.Format{
			FormatID: "vk_ads",
			Name:     "VK Ads",
			Limits:   domain.FormatLimits{HeadlineMax: 40, BodyMax: 20},
		},
		Tone:               domain.ToneNeutral,
		Language:           "RU",
		VariantsPerSegment: 1,
		Variability:        domain.VariabilityMedium,
	}
}

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]domain.Segment{
			{SegmentID: "students", Name: "Students"},
			{SegmentID: "it", Name: "IT"},
			{SegmentID: "freelancers", Name: "Freelancers"},
			{SegmentID: "parents", Name: "Parents"},
		},
		[]domain.Format{
			{FormatID: "yadirect_text", Name: "Yandex Direct", Limits: domain.FormatLimits{HeadlineMax: 56, BodyMax: 81}},
			{FormatID: "vk_ads", Name: "VK Ads", Limits: domain.FormatLimits{HeadlineMax: 40, BodyMax: 20}},
		},
		[2]map[string]string{{"format_id": "yadirect_text"}, {"format_id": "vk_ads"}},
		[]string{"No guarantees", "No superlatives"},
	)
}
