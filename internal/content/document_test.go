package content

import (
	stderrors "errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/segcraft-go/pkg/errors"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/text.txt")
	require.NoError(t, err)
	return string(data)
}

func TestParseFixture(t *testing.T) {
	doc, err := Parse(loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, "SegCraft", doc.Meta["name"])
	assert.Len(t, doc.Segments, 7)
	assert.Len(t, doc.Formats, 4)
	assert.Len(t, doc.Slides, 12)

	assert.Equal(t, "students", doc.Segments[0].SegmentID)
	assert.Equal(t, "Успевать всё и не тратить лишнего", doc.Segments[1].JobToBeDone)
	assert.Equal(t, 1, doc.Slides[0].Number)
	assert.Equal(t, "Проблема", doc.Slides[1].Title)

	limits := doc.FormatLimits()
	assert.Equal(t, 56, limits["yadirect_text"].HeadlineMax)
	assert.Equal(t, 0, limits["email_subject"].BodyMax)

	assert.Equal(t, "yadirect_text", doc.SampleInputs[0]["format_id"])
	assert.Equal(t, "", doc.SampleInputs[1]["constraints"])
	assert.Equal(t, []string{
		"Не обещать гарантированный результат",
		"Не использовать слово «лучший» без доказательств",
	}, doc.Constraints)

	assert.True(t, strings.HasPrefix(string(doc.SampleOutputs[0]), "{"))
	assert.True(t, strings.HasPrefix(doc.AnswersMD, "# Ответы"))
	assert.Len(t, doc.DemoSteps, 4)
}

func TestParseMissingSections(t *testing.T) {
	raw := strings.Replace(loadFixture(t), "[SLIDES]", "[SLIDES_OLD]", 1)
	raw = strings.Replace(raw, "[PITCH_1PAGER_MD]", "[PITCH]", 1)

	_, err := Parse(raw)

	var sourceErr *errors.SourceFormatError
	require.True(t, stderrors.As(err, &sourceErr))
	assert.Equal(t, []string{"SLIDES", "PITCH_1PAGER_MD"}, sourceErr.Sections)
}

func TestParseBelowMinimum(t *testing.T) {
	raw := strings.Replace(loadFixture(t), "SLIDE 12\ntitle=Команда\nnotes=Спасибо\n", "", 1)

	_, err := Parse(raw)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "[SLIDES] has only 11 slides")
}

func TestParseBrokenSampleOutput(t *testing.T) {
	raw := strings.Replace(loadFixture(t), `"version": "1.0",`, `"version": "1.0",,`, 1)

	_, err := Parse(raw)

	var sourceErr *errors.SourceFormatError
	require.True(t, stderrors.As(err, &sourceErr))
	assert.Equal(t, []string{"SAMPLE_OUTPUT_1_JSON"}, sourceErr.Sections)
	assert.Equal(t, 2, sourceErr.Line)
}

func TestConstraintsLibrarySkipsEmptyValues(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ConstraintsLibrary("k2=b\nk3=\nk1=a"))
	assert.Empty(t, ConstraintsLibrary(""))
}
