package response

import (
	stderrors "errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/segcraft-go/pkg/errors"
)

func TestParseAndValidateRecomputesCounts(t *testing.T) {
	raw := "Here you go:\n```json\n" + marshal(t, validPayload(t, 2, 2)) + "\n```"

	resp, err := ParseAndValidate(raw)
	require.NoError(t, err)

	for _, seg := range resp.Segments {
		for _, c := range seg.Copies {
			assert.Equal(t, utf8.RuneCountInString(c.Headline), c.CharCount.Headline)
			assert.Equal(t, utf8.RuneCountInString(c.Body), c.CharCount.Body)
		}
	}
	assert.Equal(t, 9, resp.Segments[0].Copies[0].CharCount.Headline)
}

func TestParseAndValidateCopiesMismatch(t *testing.T) {
	payload := validPayload(t, 2, 2)
	segs := payload["segments"].([]any)
	second := segs[1].(map[string]any)
	second["copies"] = second["copies"].([]any)[:1]

	_, err := ParseAndValidate(marshal(t, payload))

	var validationErr *errors.ValidationError
	require.True(t, stderrors.As(err, &validationErr))
	require.Len(t, validationErr.Violations, 1)
	assert.Contains(t, validationErr.Violations[0], "segment_id=seg_xx")
	assert.Contains(t, validationErr.Violations[0], "has 1 copies, variants_per_segment is 2")
}

func TestParseAndValidateAggregatesViolations(t *testing.T) {
	payload := validPayload(t, 1, 1)
	payload["version"] = "v1"
	echo := payload["input_echo"].(map[string]any)
	echo["tone"] = "angry"
	payload["questions"] = []any{map[string]any{"q": "q", "why": "w", "priority": "P9"}}

	_, err := ParseAndValidate(marshal(t, payload))

	var validationErr *errors.ValidationError
	require.True(t, stderrors.As(err, &validationErr))
	assert.Len(t, validationErr.Violations, 3)
	assert.Contains(t, err.Error(), "3 violations")
	assert.Contains(t, err.Error(), "input_echo.tone")
	assert.Contains(t, err.Error(), "questions[0].priority")
}

func TestParseAndValidateVariantsRange(t *testing.T) {
	for _, n := range []int{0, 4} {
		payload := validPayload(t, 1, 1)
		payload["input_echo"].(map[string]any)["variants_per_segment"] = n

		_, err := ParseAndValidate(marshal(t, payload))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "variants_per_segment")
	}
}

func TestDecodeStructuralViolations(t *testing.T) {
	payload := validPayload(t, 1, 1)
	delete(payload, "exec_summary")
	copies := payload["segments"].([]any)[0].(map[string]any)["copies"].([]any)
	first := copies[0].(map[string]any)
	delete(first, "cta")
	first["headline"] = 42
	first["char_count"] = map[string]any{"headline": -1, "body": 0}

	_, err := Decode([]byte(marshal(t, payload)))

	var validationErr *errors.ValidationError
	require.True(t, stderrors.As(err, &validationErr))
	assert.ElementsMatch(t, []string{
		"segments[0].copies[0].headline: must be a string, got number",
		"segments[0].copies[0].cta: field required",
		"segments[0].copies[0].char_count.headline: must be >= 0, got -1",
		"exec_summary: field required",
	}, validationErr.Violations)
}

func TestDecodeOptionalFields(t *testing.T) {
	payload := validPayload(t, 1, 1)
	delete(payload, "questions")
	delete(payload, "global_risks")
	c := payload["segments"].([]any)[0].(map[string]any)["copies"].([]any)[0].(map[string]any)
	delete(c, "char_count")
	delete(c, "risk_flags")

	resp, err := DecodeAndValidate([]byte(marshal(t, payload)))
	require.NoError(t, err)

	assert.NotNil(t, resp.Questions)
	assert.NotNil(t, resp.GlobalRisks)
	assert.NotNil(t, resp.Segments[0].Copies[0].RiskFlags)
	assert.Equal(t, 16, resp.Segments[0].Copies[0].CharCount.Body)
}

func TestDecodeRejectsNonObject(t *testing.T) {
	_, err := Decode([]byte(`[{"version": "1.0"}]`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a JSON object")
}

func TestParseAndValidateRequiresSegments(t *testing.T) {
	payload := validPayload(t, 0, 1)

	_, err := ParseAndValidate(marshal(t, payload))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one segment")
}
