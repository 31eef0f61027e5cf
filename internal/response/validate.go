package response

import (
	"fmt"
	"regexp"

	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/pkg/errors"
)

var versionPattern = regexp.MustCompile(`^\d+\.\d+$`)

// Validate checks field constraints and cross-field invariants of a decoded
// response. All violations are collected into a single ValidationError.
func Validate(resp *domain.Response) error {
	var violations []string
	add := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	if !versionPattern.MatchString(resp.Version) {
		add("version: %q does not match major.minor", resp.Version)
	}

	echo := resp.InputEcho
	if !echo.Tone.IsValid() {
		add("input_echo.tone: %q is not one of friendly, neutral, formal, bold", echo.Tone)
	}
	expected := echo.VariantsPerSegment
	if expected < domain.MinVariantsPerSegment || expected > domain.MaxVariantsPerSegment {
		add("input_echo.variants_per_segment: %d is outside [%d, %d]",
			expected, domain.MinVariantsPerSegment, domain.MaxVariantsPerSegment)
	}

	for i, q := range resp.Questions {
		if !q.Priority.IsValid() {
			add("questions[%d].priority: %q is not one of P0, P1, P2", i, q.Priority)
		}
	}

	if len(resp.Segments) == 0 {
		add("segments: at least one segment is required")
	}
	for i, seg := range resp.Segments {
		if len(seg.Copies) != expected {
			add("segments[%d].copies: segment_id=%s has %d copies, variants_per_segment is %d",
				i, seg.SegmentID, len(seg.Copies), expected)
		}
		for j, c := range seg.Copies {
			if c.CharCount.Headline < 0 || c.CharCount.Body < 0 {
				add("segments[%d].copies[%d].char_count: counts must be >= 0", i, j)
			}
		}
	}

	if len(violations) > 0 {
		return errors.NewValidationError(violations...)
	}
	return nil
}

// ParseAndValidate runs extraction, decoding, count recomputation and
// validation on raw model text.
func ParseAndValidate(raw string) (*domain.Response, error) {
	text, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	return DecodeAndValidate([]byte(text))
}

// DecodeAndValidate is ParseAndValidate for an already isolated JSON document.
func DecodeAndValidate(data []byte) (*domain.Response, error) {
	resp, err := Decode(data)
	if err != nil {
		return nil, err
	}
	resp.SyncCharCounts()
	if err := Validate(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
