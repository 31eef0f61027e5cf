// Package export flattens a validated response into a per-segment matrix and
// renders it as CSV, Markdown, JSON or YAML.
package export

import (
	"fmt"
	"strings"

	"github.com/kapu/segcraft-go/internal/domain"
)

const (
	ColumnSegment = "Segment"
	ColumnTrigger = "Trigger"
	ColumnCTA     = "CTA"
	ColumnRisks   = "Risk flags"
	ColumnChars   = "Chars (headline/body)"
)

const noRisks = "-"

// Row is one segment of the matrix. Variants holds "headline\nbody" per copy.
type Row struct {
	Segment  string
	Trigger  string
	Variants []string
	CTA      string
	Risks    string
	Chars    string
}

type Matrix struct {
	Rows []Row
	// VariantColumns is the widest copy count across rows.
	VariantColumns int
}

type Options struct {
	// P0Only keeps only forbidden_claims, compliance_sensitive and
	// format_overflow flags.
	P0Only bool
}

func BuildMatrix(resp *domain.Response, opts Options) Matrix {
	m := Matrix{Rows: make([]Row, 0, len(resp.Segments))}

	for _, seg := range resp.Segments {
		row := Row{Segment: seg.SegmentName, Trigger: seg.Trigger}

		var ctas, risks, chars []string
		for i, c := range seg.Copies {
			n := i + 1
			row.Variants = append(row.Variants, c.Headline+"\n"+c.Body)
			ctas = append(ctas, c.CTA)
			chars = append(chars, fmt.Sprintf("v%d: %d/%d", n, c.CharCount.Headline, c.CharCount.Body))

			for _, flag := range c.RiskFlags {
				if opts.P0Only && !domain.P0RiskTypes[flag.Type] {
					continue
				}
				risks = append(risks, flag.Type+": "+flag.Note)
			}
		}

		row.CTA = strings.Join(ctas, " | ")
		row.Risks = noRisks
		if len(risks) > 0 {
			row.Risks = strings.Join(risks, " ; ")
		}
		row.Chars = strings.Join(chars, " ; ")

		if len(row.Variants) > m.VariantColumns {
			m.VariantColumns = len(row.Variants)
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

func (m Matrix) Header() []string {
	header := []string{ColumnSegment, ColumnTrigger}
	for i := 1; i <= m.VariantColumns; i++ {
		header = append(header, fmt.Sprintf("Variant #%d", i))
	}
	return append(header, ColumnCTA, ColumnRisks, ColumnChars)
}

// Records returns the rows as string cells aligned with Header. Rows with
// fewer variants get empty cells.
func (m Matrix) Records() [][]string {
	records := make([][]string, 0, len(m.Rows))
	for _, row := range m.Rows {
		record := []string{row.Segment, row.Trigger}
		for i := 0; i < m.VariantColumns; i++ {
			cell := ""
			if i < len(row.Variants) {
				cell = row.Variants[i]
			}
			record = append(record, cell)
		}
		records = append(records, append(record, row.CTA, row.Risks, row.Chars))
	}
	return records
}
