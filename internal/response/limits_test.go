package response

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/segcraft-go/internal/domain"
)

func responseWithCopy(formatID, headline, body string) *domain.Response {
	resp := &domain.Response{
		Version:   "1.0",
		InputEcho: domain.InputEcho{FormatID: formatID, Tone: domain.ToneNeutral, VariantsPerSegment: 1},
		Segments: []domain.SegmentOutput{{
			SegmentID: "s",
			Copies:    []domain.CopyVariant{{Headline: headline, Body: body}},
		}},
	}
	resp.SyncCharCounts()
	return resp
}

func TestEnforceFormatLimitsTruncatesHeadline(t *testing.T) {
	resp := responseWithCopy("short", "Hello big  world", "ok")
	limits := domain.LimitsTable{"short": {HeadlineMax: 10, BodyMax: 100}}

	n := EnforceFormatLimits(resp, limits)

	c := resp.Segments[0].Copies[0]
	assert.Equal(t, 1, n)
	assert.Equal(t, "Hello big", c.Headline)
	assert.LessOrEqual(t, utf8.RuneCountInString(c.Headline), 10)
	assert.Equal(t, strings.TrimRight(c.Headline, " "), c.Headline)
	assert.Equal(t, "ok", c.Body)
	require.Len(t, c.RiskFlags, 1)
	assert.Equal(t, domain.RiskFormatOverflow, c.RiskFlags[0].Type)
	assert.Equal(t, domain.CharCount{Headline: 9, Body: 2}, c.CharCount)
}

func TestEnforceFormatLimitsCountsRunes(t *testing.T) {
	body := strings.Repeat("я", 12)
	resp := responseWithCopy("ru", "Заголовок", body)

	EnforceFormatLimits(resp, domain.LimitsTable{"ru": {HeadlineMax: 9, BodyMax: 10}})

	c := resp.Segments[0].Copies[0]
	assert.Equal(t, "Заголовок", c.Headline)
	assert.Equal(t, strings.Repeat("я", 10), c.Body)
	assert.Equal(t, 10, c.CharCount.Body)
	assert.Len(t, c.RiskFlags, 1)
}

func TestEnforceFormatLimitsIdempotent(t *testing.T) {
	resp := responseWithCopy("short", "A headline that is too long", "A body that also runs past the cap")
	limits := domain.LimitsTable{"short": {HeadlineMax: 10, BodyMax: 12}}

	EnforceFormatLimits(resp, limits)
	once := cloneResponse(t, resp)
	n := EnforceFormatLimits(resp, limits)

	assert.Zero(t, n)
	if diff := cmp.Diff(once, resp); diff != "" {
		t.Errorf("second pass changed the response (-once +twice):\n%s", diff)
	}
	assert.Len(t, resp.Segments[0].Copies[0].RiskFlags, 1)
}

func TestEnforceFormatLimitsZeroMeansUnlimited(t *testing.T) {
	long := strings.Repeat("x", 500)
	resp := responseWithCopy("open", long, long)

	n := EnforceFormatLimits(resp, domain.LimitsTable{"open": {}})

	assert.Zero(t, n)
	assert.Equal(t, long, resp.Segments[0].Copies[0].Headline)
	assert.Empty(t, resp.Segments[0].Copies[0].RiskFlags)
}

func TestEnforceFormatLimitsUnknownFormat(t *testing.T) {
	resp := responseWithCopy("missing", strings.Repeat("x", 50), "b")
	before := cloneResponse(t, resp)

	n := EnforceFormatLimits(resp, domain.LimitsTable{"other": {HeadlineMax: 1}})

	assert.Zero(t, n)
	assert.Empty(t, cmp.Diff(before, resp))
}

func cloneResponse(t *testing.T, resp *domain.Response) *domain.Response {
	t.Helper()
	copied := *resp
	copied.Segments = make([]domain.SegmentOutput, len(resp.Segments))
	for i, seg := range resp.Segments {
		seg.Copies = append([]domain.CopyVariant(nil), seg.Copies...)
		for j := range seg.Copies {
			seg.Copies[j].RiskFlags = append([]domain.RiskFlag{}, seg.Copies[j].RiskFlags...)
		}
		copied.Segments[i] = seg
	}
	return &copied
}
