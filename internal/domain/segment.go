package domain

import (
	"strings"
)

// CustomSegmentID marks a segment typed in by the user instead of picked from the catalog.
const CustomSegmentID = "custom_segment"

const (
	customSegmentDefaultName = "Custom segment"
	customSegmentNameLimit   = 48
)

type Segment struct {
	SegmentID               string   `json:"segment_id"`
	Name                    string   `json:"name"`
	Who                     string   `json:"who"`
	JobToBeDone             string   `json:"job_to_be_done"`
	Pains                   []string `json:"pains"`
	Triggers                []string `json:"triggers"`
	Taboos                  []string `json:"taboos"`
	ToneHint                string   `json:"tone_hint"`
	CTAStyle                string   `json:"cta_style"`
	ExampleOfferAdaptations []string `json:"example_offer_adaptations"`
}

// Label is the display form used by selection lists: "Name (id)".
func (s Segment) Label() string {
	return s.Name + " (" + s.SegmentID + ")"
}

func (s Segment) IsCustom() bool {
	return s.SegmentID == CustomSegmentID
}

// NewCustomSegment builds the one-field ad hoc segment from free text.
func NewCustomSegment(text string) Segment {
	trimmed := strings.TrimSpace(text)

	name := customSegmentDefaultName
	if trimmed != "" {
		first, _, _ := strings.Cut(trimmed, ".")
		runes := []rune(first)
		if len(runes) > customSegmentNameLimit {
			runes = runes[:customSegmentNameLimit]
		}
		name = string(runes)
	}

	return Segment{
		SegmentID:               CustomSegmentID,
		Name:                    name,
		Who:                     trimmed,
		JobToBeDone:             trimmed,
		Pains:                   []string{},
		Triggers:                []string{"Relevant per user input"},
		Taboos:                  []string{},
		ToneHint:                "Follow the context of the custom segment",
		CTAStyle:                "Neutral",
		ExampleOfferAdaptations: []string{},
	}
}
