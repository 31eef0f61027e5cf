package response

import (
	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/internal/util"
)

const (
	overflowNote       = "Text was automatically shortened to the format limit"
	overflowSuggestFix = "Shorten manually while keeping the key idea"
)

// EnforceFormatLimits truncates every headline and body to the limits of the
// echoed format and flags each shortened variant with format_overflow. An
// unknown format id leaves the response untouched. A zero maximum means no
// limit. Counts are recomputed afterwards. It returns the number of variants
// that were shortened, so a second pass always returns 0.
func EnforceFormatLimits(resp *domain.Response, limits domain.LimitsTable) int {
	formatLimits, ok := limits[resp.InputEcho.FormatID]
	if !ok {
		return 0
	}

	truncated := 0
	for i := range resp.Segments {
		for j := range resp.Segments[i].Copies {
			c := &resp.Segments[i].Copies[j]
			headline, cutHeadline := capText(c.Headline, formatLimits.HeadlineMax)
			body, cutBody := capText(c.Body, formatLimits.BodyMax)
			c.Headline = headline
			c.Body = body
			if cutHeadline || cutBody {
				c.RiskFlags = append(c.RiskFlags, domain.RiskFlag{
					Type:       domain.RiskFormatOverflow,
					Note:       overflowNote,
					SuggestFix: overflowSuggestFix,
				})
				truncated++
			}
		}
	}
	resp.SyncCharCounts()
	return truncated
}

func capText(s string, max int) (string, bool) {
	if max <= 0 || util.RuneLen(s) <= max {
		return s, false
	}
	return util.TruncateRunes(s, max), true
}
