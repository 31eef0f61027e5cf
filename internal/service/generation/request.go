package generation

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kapu/segcraft-go/internal/catalog"
	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/internal/util"
)

// ErrInvalidRequest marks caller mistakes; it is never a model failure.
var ErrInvalidRequest = stderrors.New("invalid generation request")

// RequestParams is what a caller supplies; catalog references are resolved
// by BuildRequest.
type RequestParams struct {
	BaseText           string                  `json:"base_text"`
	ProductContext     string                  `json:"product_context"`
	SegmentIDs         []string                `json:"segment_ids"`
	CustomSegment      string                  `json:"custom_segment"`
	FormatID           string                  `json:"format_id"`
	Tone               domain.Tone             `json:"tone"`
	VariantsPerSegment int                     `json:"variants_per_segment"`
	Variability        domain.VariabilityLevel `json:"variability_level"`
	Constraints        []string                `json:"constraints"`
	Language           string                  `json:"language"`
	ForceMock          bool                    `json:"force_mock"`
}

// ParamsFromSample reads a sample input document.
func ParamsFromSample(kv map[string]string) (RequestParams, error) {
	params := RequestParams{
		BaseText:       kv["base_text"],
		ProductContext: kv["product_context"],
		SegmentIDs:     util.SplitList(kv["selected_segments"], ";"),
		FormatID:       kv["format_id"],
		Tone:           domain.Tone(kv["tone"]),
		Variability:    domain.VariabilityLevel(kv["variability_level"]),
	}
	if constraints := catalog.SplitConstraints(kv["constraints"]); len(constraints) > 0 {
		params.Constraints = constraints
	}
	if raw := strings.TrimSpace(kv["variants_per_segment"]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return RequestParams{}, fmt.Errorf("%w: variants_per_segment %q is not a number", ErrInvalidRequest, raw)
		}
		params.VariantsPerSegment = n
	}
	return params, nil
}

// BuildRequest validates params against the catalog. Zero values fall back
// to defaults; nil constraints take the catalog's constraint library.
func BuildRequest(cat *catalog.Catalog, params RequestParams) (Request, error) {
	baseText := strings.TrimSpace(params.BaseText)
	if baseText == "" {
		return Request{}, fmt.Errorf("%w: base text is required", ErrInvalidRequest)
	}

	segments, err := cat.Select(params.SegmentIDs)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if minSegments := constants.GenerationConfig.MinSelectedSegments; len(segments) < minSegments {
		return Request{}, fmt.Errorf("%w: select at least %d audience segments, got %d", ErrInvalidRequest, minSegments, len(segments))
	}
	if strings.TrimSpace(params.CustomSegment) != "" {
		segments = append(segments, domain.NewCustomSegment(params.CustomSegment))
	}

	format, ok := cat.Format(params.FormatID)
	if !ok {
		return Request{}, fmt.Errorf("%w: unknown format id %q", ErrInvalidRequest, params.FormatID)
	}

	tone := params.Tone
	if tone == "" {
		tone = domain.ToneNeutral
	}
	if !tone.IsValid() {
		return Request{}, fmt.Errorf("%w: tone %q is not one of friendly, neutral, formal, bold", ErrInvalidRequest, tone)
	}

	variants := params.VariantsPerSegment
	if variants == 0 {
		variants = constants.GenerationConfig.DefaultVariants
	}
	if variants < domain.MinVariantsPerSegment || variants > domain.MaxVariantsPerSegment {
		return Request{}, fmt.Errorf("%w: variants_per_segment must be between %d and %d, got %d",
			ErrInvalidRequest, domain.MinVariantsPerSegment, domain.MaxVariantsPerSegment, variants)
	}

	variability := params.Variability
	if variability == "" {
		variability = domain.VariabilityMedium
	}
	if !variability.IsValid() {
		return Request{}, fmt.Errorf("%w: variability level %q is not one of soft, medium, bold", ErrInvalidRequest, variability)
	}

	language := strings.TrimSpace(params.Language)
	if language == "" {
		language = constants.GenerationConfig.DefaultLanguage
	}

	constraints := params.Constraints
	if constraints == nil {
		constraints = cat.Constraints()
	}

	return Request{
		Input: domain.CaseInput{
			BaseText:           baseText,
			ProductContext:     strings.TrimSpace(params.ProductContext),
			Segments:           segments,
			Format:             format,
			Constraints:        constraints,
			Tone:               tone,
			Language:           language,
			VariantsPerSegment: variants,
			Variability:        variability,
		},
		ForceMock: params.ForceMock,
	}, nil
}
