package domain

import "unicode/utf8"

type Tone string

const (
	ToneFriendly Tone = "friendly"
	ToneNeutral  Tone = "neutral"
	ToneFormal   Tone = "formal"
	ToneBold     Tone = "bold"
)

func (t Tone) IsValid() bool {
	switch t {
	case ToneFriendly, ToneNeutral, ToneFormal, ToneBold:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityP0, PriorityP1, PriorityP2:
		return true
	default:
		return false
	}
}

// Risk flag types the prompt asks the model to use. The type field itself stays free-form.
const (
	RiskForbiddenClaims     = "forbidden_claims"
	RiskComplianceSensitive = "compliance_sensitive"
	RiskVagueOffer          = "vague_offer"
	RiskMissingProof        = "missing_proof"
	RiskFormatOverflow      = "format_overflow"
)

// KnownRiskTypes lists the operational vocabulary in prompt order.
var KnownRiskTypes = []string{
	RiskForbiddenClaims,
	RiskComplianceSensitive,
	RiskVagueOffer,
	RiskMissingProof,
	RiskFormatOverflow,
}

// P0RiskTypes are the risk types kept by the "P0 risks only" filter.
var P0RiskTypes = map[string]bool{
	RiskForbiddenClaims:     true,
	RiskComplianceSensitive: true,
	RiskFormatOverflow:      true,
}

const (
	MinVariantsPerSegment = 1
	MaxVariantsPerSegment = 3
)

type Response struct {
	Version     string          `json:"version" yaml:"version"`
	InputEcho   InputEcho       `json:"input_echo" yaml:"input_echo"`
	Questions   []Question      `json:"questions" yaml:"questions"`
	Segments    []SegmentOutput `json:"segments" yaml:"segments"`
	GlobalRisks []GlobalRisk    `json:"global_risks" yaml:"global_risks"`
	ExportHints ExportHints     `json:"export_hints" yaml:"export_hints"`
	ExecSummary ExecSummary     `json:"exec_summary" yaml:"exec_summary"`
}

type InputEcho struct {
	BaseText           string   `json:"base_text" yaml:"base_text"`
	Tone               Tone     `json:"tone" yaml:"tone"`
	FormatID           string   `json:"format_id" yaml:"format_id"`
	VariantsPerSegment int      `json:"variants_per_segment" yaml:"variants_per_segment"`
	Constraints        []string `json:"constraints" yaml:"constraints"`
	Assumptions        []string `json:"assumptions" yaml:"assumptions"`
}

type Question struct {
	Q        string   `json:"q" yaml:"q"`
	Why      string   `json:"why" yaml:"why"`
	Priority Priority `json:"priority" yaml:"priority"`
}

type SegmentOutput struct {
	SegmentID       string        `json:"segment_id" yaml:"segment_id"`
	SegmentName     string        `json:"segment_name" yaml:"segment_name"`
	CoreInsight     string        `json:"core_insight" yaml:"core_insight"`
	Trigger         string        `json:"trigger" yaml:"trigger"`
	Angle           string        `json:"angle" yaml:"angle"`
	Copies          []CopyVariant `json:"copies" yaml:"copies"`
	DifferencesNote string        `json:"differences_note" yaml:"differences_note"`
}

type CopyVariant struct {
	Headline  string     `json:"headline" yaml:"headline"`
	Body      string     `json:"body" yaml:"body"`
	CTA       string     `json:"cta" yaml:"cta"`
	Rationale string     `json:"rationale" yaml:"rationale"`
	CharCount CharCount  `json:"char_count" yaml:"char_count"`
	RiskFlags []RiskFlag `json:"risk_flags" yaml:"risk_flags"`
}

type CharCount struct {
	Headline int `json:"headline" yaml:"headline"`
	Body     int `json:"body" yaml:"body"`
}

type RiskFlag struct {
	Type       string `json:"type" yaml:"type"`
	Note       string `json:"note" yaml:"note"`
	SuggestFix string `json:"suggest_fix" yaml:"suggest_fix"`
}

type GlobalRisk struct {
	Risk       string `json:"risk" yaml:"risk"`
	Impact     string `json:"impact" yaml:"impact"`
	Mitigation string `json:"mitigation" yaml:"mitigation"`
}

type ExportHints struct {
	HowToUse          []string `json:"how_to_use" yaml:"how_to_use"`
	ABTestSuggestions []string `json:"ab_test_suggestions" yaml:"ab_test_suggestions"`
}

type ExecSummary struct {
	ForMarketer       string `json:"for_marketer" yaml:"for_marketer"`
	ForNonTechManager string `json:"for_non_tech_manager" yaml:"for_non_tech_manager"`
}

// SyncCharCount overwrites the stored counts with the literal lengths of the
// current headline and body.
func (c *CopyVariant) SyncCharCount() {
	c.CharCount = CharCount{
		Headline: utf8.RuneCountInString(c.Headline),
		Body:     utf8.RuneCountInString(c.Body),
	}
	if c.RiskFlags == nil {
		c.RiskFlags = []RiskFlag{}
	}
}

// SyncCharCounts applies SyncCharCount to every copy variant in the response.
func (r *Response) SyncCharCounts() {
	for i := range r.Segments {
		for j := range r.Segments[i].Copies {
			r.Segments[i].Copies[j].SyncCharCount()
		}
	}
}

func (r *Response) HasRisk(riskType string) bool {
	for _, seg := range r.Segments {
		for _, c := range seg.Copies {
			for _, flag := range c.RiskFlags {
				if flag.Type == riskType {
					return true
				}
			}
		}
	}
	return false
}
