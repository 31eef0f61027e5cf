package content

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/internal/util"
	"github.com/kapu/segcraft-go/pkg/errors"
)

const (
	recordEnd     = "END"
	recordSegment = "SEGMENT"
	recordFormat  = "FORMAT"
	listSeparator = ";"
)

// scanRecords splits a block into key-value records delimited by an opening
// keyword line and an END line. A stray END is ignored and a record still
// open at the end of the block is kept.
func scanRecords(block, keyword string) []map[string]string {
	var (
		records []map[string]string
		buffer  []string
		open    bool
	)

	flush := func() {
		records = append(records, ParseKeyValues(strings.Join(buffer, "\n")))
		buffer = nil
		open = false
	}

	for _, line := range splitLines(block) {
		stripped := strings.TrimSpace(line)
		if isSkippable(stripped) {
			continue
		}
		switch {
		case stripped == keyword:
			if open {
				flush()
			}
			open = true
			buffer = nil
		case stripped == recordEnd:
			if open {
				flush()
			}
		case open:
			buffer = append(buffer, stripped)
		}
	}
	if open {
		flush()
	}
	return records
}

// ParseSegments reads SEGMENT…END records.
func ParseSegments(block string) []domain.Segment {
	records := scanRecords(block, recordSegment)
	segments := make([]domain.Segment, 0, len(records))
	for _, kv := range records {
		job, ok := kv["job"]
		if !ok {
			job = kv["job_to_be_done"]
		}
		segments = append(segments, domain.Segment{
			SegmentID:               kv["id"],
			Name:                    kv["name"],
			Who:                     kv["who"],
			JobToBeDone:             job,
			Pains:                   util.SplitList(kv["pains"], listSeparator),
			Triggers:                util.SplitList(kv["triggers"], listSeparator),
			Taboos:                  util.SplitList(kv["taboos"], listSeparator),
			ToneHint:                kv["tone_hint"],
			CTAStyle:                kv["cta_style"],
			ExampleOfferAdaptations: util.SplitList(kv["example_offer_adaptations"], listSeparator),
		})
	}
	return segments
}

// ParseFormats reads FORMAT…END records. An absent maximum is 0 ("no limit");
// a maximum that is present but not a non-negative integer is an error.
func ParseFormats(block string) ([]domain.Format, error) {
	records := scanRecords(block, recordFormat)
	formats := make([]domain.Format, 0, len(records))
	for _, kv := range records {
		id := kv["id"]
		headlineMax, err := parseLimit(kv, "headline_max", id)
		if err != nil {
			return nil, err
		}
		bodyMax, err := parseLimit(kv, "body_max", id)
		if err != nil {
			return nil, err
		}

		limits := domain.FormatLimits{HeadlineMax: headlineMax, BodyMax: bodyMax}
		formats = append(formats, domain.Format{
			FormatID:       id,
			Name:           kv["name"],
			Limits:         limits,
			OutputTemplate: domain.OutputTemplateFor(limits),
			Notes:          kv["notes"],
		})
	}
	return formats, nil
}

func parseLimit(kv map[string]string, key, formatID string) (int, error) {
	raw, ok := kv[key]
	if !ok || raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, errors.NewSourceFormatError(
			fmt.Sprintf("[%s] format %q has invalid %s=%q (expected a non-negative integer)",
				constants.SectionAdFormats, formatID, key, raw),
			[]string{constants.SectionAdFormats}, 0,
		)
	}
	return value, nil
}
