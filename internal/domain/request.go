package domain

// VariabilityLevel controls how far the variants may drift from the base text.
type VariabilityLevel string

const (
	VariabilitySoft   VariabilityLevel = "soft"
	VariabilityMedium VariabilityLevel = "medium"
	VariabilityBold   VariabilityLevel = "bold"
)

func (v VariabilityLevel) IsValid() bool {
	switch v {
	case VariabilitySoft, VariabilityMedium, VariabilityBold:
		return true
	default:
		return false
	}
}

// CaseInput is everything a caller collects before a prompt can be built.
type CaseInput struct {
	BaseText           string           `json:"base_text"`
	ProductContext     string           `json:"product_context"`
	Segments           []Segment        `json:"segments"`
	Format             Format           `json:"format"`
	Constraints        []string         `json:"constraints"`
	Tone               Tone             `json:"tone"`
	Language           string           `json:"language"`
	VariantsPerSegment int              `json:"variants_per_segment"`
	Variability        VariabilityLevel `json:"variability_level"`
}
