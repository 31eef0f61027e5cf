package content

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/pkg/errors"
)

// Document is the fully parsed unified source.
type Document struct {
	Meta          map[string]string
	Segments      []domain.Segment
	Formats       []domain.Format
	Slides        []domain.Slide
	SampleInputs  [2]map[string]string
	SampleOutputs [2]json.RawMessage
	DemoSteps     map[string]string
	AnswersMD     string
	PitchMD       string
	Constraints   []string
}

// Parse validates the section layout and parses every section. Nothing is
// returned unless the whole source is well formed.
func Parse(raw string) (*Document, error) {
	sections := SplitSections(raw)
	if err := RequireSections(sections, constants.RequiredSections...); err != nil {
		return nil, err
	}

	formats, err := ParseFormats(sections[constants.SectionAdFormats])
	if err != nil {
		return nil, err
	}
	slides, err := ParseSlides(sections[constants.SectionSlides])
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Meta:      ParseKeyValues(sections[constants.SectionProjectMeta]),
		Segments:  ParseSegments(sections[constants.SectionDefaultSegments]),
		Formats:   formats,
		Slides:    slides,
		DemoSteps: ParseKeyValues(sections[constants.SectionDemoScript]),
		AnswersMD: sections[constants.SectionSubmissionAnswers],
		PitchMD:   sections[constants.SectionPitchOnePager],
		SampleInputs: [2]map[string]string{
			ParseKeyValues(sections[constants.SectionSampleInput1]),
			ParseKeyValues(sections[constants.SectionSampleInput2]),
		},
		Constraints: ConstraintsLibrary(sections[constants.SectionConstraintsLibrary]),
	}

	if err := doc.checkMinimums(); err != nil {
		return nil, err
	}

	for i, name := range []string{constants.SectionSampleOutput1JSON, constants.SectionSampleOutput2JSON} {
		out, err := ParseJSONSection(sections[name], name)
		if err != nil {
			return nil, err
		}
		doc.SampleOutputs[i] = out
	}

	return doc, nil
}

// ConstraintsLibrary returns the library values ordered by key.
func ConstraintsLibrary(block string) []string {
	kv := ParseKeyValues(block)
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		if kv[k] != "" {
			values = append(values, kv[k])
		}
	}
	return values
}

func (d *Document) checkMinimums() error {
	checks := []struct {
		section string
		what    string
		got     int
		want    int
	}{
		{constants.SectionDefaultSegments, "segments", len(d.Segments), constants.CatalogMinimums.Segments},
		{constants.SectionAdFormats, "formats", len(d.Formats), constants.CatalogMinimums.Formats},
		{constants.SectionSlides, "slides", len(d.Slides), constants.CatalogMinimums.Slides},
	}
	for _, c := range checks {
		if c.got < c.want {
			return errors.NewSourceFormatError(
				fmt.Sprintf("[%s] has only %d %s; at least %d are required", c.section, c.got, c.what, c.want),
				[]string{c.section}, 0,
			)
		}
	}
	return nil
}

// FormatLimits builds the limit table for the parsed formats.
func (d *Document) FormatLimits() domain.LimitsTable {
	return domain.NewLimitsTable(d.Formats)
}
