package domain

import "fmt"

type FormatLimits struct {
	HeadlineMax int `json:"headline_max"`
	BodyMax     int `json:"body_max"`
}

// Unlimited reports whether neither field carries a cap. A zero maximum means
// the source did not declare a limit for that field.
func (l FormatLimits) Unlimited() bool {
	return l.HeadlineMax == 0 && l.BodyMax == 0
}

type Format struct {
	FormatID       string       `json:"format_id"`
	Name           string       `json:"name"`
	Limits         FormatLimits `json:"limits"`
	OutputTemplate string       `json:"output_template"`
	Notes          string       `json:"notes"`
}

// LimitsTable maps a format id to its headline/body maxima.
type LimitsTable map[string]FormatLimits

func NewLimitsTable(formats []Format) LimitsTable {
	table := make(LimitsTable, len(formats))
	for _, f := range formats {
		if f.FormatID == "" {
			continue
		}
		table[f.FormatID] = f.Limits
	}
	return table
}

// OutputTemplateFor renders the human-readable instruction for the given limits.
func OutputTemplateFor(limits FormatLimits) string {
	return fmt.Sprintf("Write a headline up to %s and a body up to %s.",
		describeLimit(limits.HeadlineMax), describeLimit(limits.BodyMax))
}

// Label is the option text shown in format pickers.
func (f Format) Label() string {
	return fmt.Sprintf("%s | h≤%s / b≤%s", f.Name, limitShort(f.Limits.HeadlineMax), limitShort(f.Limits.BodyMax))
}

func describeLimit(max int) string {
	if max <= 0 {
		return "any length"
	}
	return fmt.Sprintf("%d characters", max)
}

func limitShort(max int) string {
	if max <= 0 {
		return "∞"
	}
	return fmt.Sprintf("%d", max)
}
