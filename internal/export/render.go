package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/kapu/segcraft-go/internal/domain"
)

type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the supported export formats in display order.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatMarkdown, FormatJSON, FormatYAML:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, md, json or yaml)", s)
	}
}

// ContentType is the MIME type served for an export.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// Render dispatches on format. The matrix formats honor opts; JSON and YAML
// always carry the whole response.
func Render(resp *domain.Response, format Format, opts Options) ([]byte, error) {
	switch format {
	case FormatCSV:
		return CSV(BuildMatrix(resp, opts))
	case FormatMarkdown:
		return []byte(Markdown(BuildMatrix(resp, opts))), nil
	case FormatJSON:
		return JSON(resp)
	case FormatYAML:
		return YAML(resp)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV encodes the matrix with a UTF-8 byte order mark so spreadsheet tools
// detect the encoding.
func CSV(m Matrix) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(m.Header()); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(m.Records()); err != nil {
		return nil, fmt.Errorf("failed to write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

const emptyMarkdownTable = "| Empty |\n|---|\n| No data |"

// Markdown renders a pipe table padded to display width. Newlines inside
// cells become <br>.
func Markdown(m Matrix) string {
	if len(m.Rows) == 0 {
		return emptyMarkdownTable
	}

	header := m.Header()
	records := m.Records()
	for _, record := range records {
		for i, cell := range record {
			record[i] = markdownCell(cell)
		}
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = max(3, runewidth.StringWidth(h))
	}
	for _, record := range records {
		for i, cell := range record {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	writeMarkdownRow(&b, header, widths)
	writeMarkdownSeparator(&b, widths)
	for _, record := range records {
		writeMarkdownRow(&b, record, widths)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeMarkdownRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteString("|")
	for i, cell := range cells {
		b.WriteString(" ")
		b.WriteString(runewidth.FillRight(cell, widths[i]))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

func JSON(resp *domain.Response) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return nil, fmt.Errorf("failed to encode response json: %w", err)
	}
	return buf.Bytes(), nil
}

func YAML(resp *domain.Response) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(resp); err != nil {
		return nil, fmt.Errorf("failed to encode response yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode response yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// writeMarkdownSeparator spans each column's padding with dashes, matching
// the compact "|---|" form of the empty table.
func writeMarkdownSeparator(b *strings.Builder, widths []int) {
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
}
