// Package catalog holds the read-only segment and format catalog shared by
// every generation request.
package catalog

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/internal/content"
	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/pkg/errors"
)

// Catalog is immutable after construction. Accessors return copies, so one
// instance can be shared by concurrent requests without locking.
type Catalog struct {
	segments     []domain.Segment
	segmentByID  map[string]int
	formats      []domain.Format
	formatByID   map[string]int
	sampleInputs [2]map[string]string
	constraints  []string
}

func New(segments []domain.Segment, formats []domain.Format, sampleInputs [2]map[string]string, constraints []string) *Catalog {
	c := &Catalog{
		segments:    append([]domain.Segment(nil), segments...),
		segmentByID: make(map[string]int, len(segments)),
		formats:     append([]domain.Format(nil), formats...),
		formatByID:  make(map[string]int, len(formats)),
		constraints: append([]string{}, constraints...),
	}
	for i, s := range c.segments {
		c.segmentByID[s.SegmentID] = i
	}
	for i, f := range c.formats {
		c.formatByID[f.FormatID] = i
	}
	for i, kv := range sampleInputs {
		c.sampleInputs[i] = copyMap(kv)
	}
	return c
}

// FromDocument builds a catalog straight from a parsed content source.
func FromDocument(doc *content.Document) *Catalog {
	return New(doc.Segments, doc.Formats, doc.SampleInputs, doc.Constraints)
}

// Load reads the files written by sync under root. The constraints library
// is optional.
func Load(root string) (*Catalog, error) {
	var segments []domain.Segment
	if err := readJSON(root, constants.DerivedPaths.Segments, &segments); err != nil {
		return nil, err
	}
	var formats []domain.Format
	if err := readJSON(root, constants.DerivedPaths.Formats, &formats); err != nil {
		return nil, err
	}

	var sampleInputs [2]map[string]string
	for i, rel := range []string{constants.DerivedPaths.SampleInput1, constants.DerivedPaths.SampleInput2} {
		data, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			return nil, missingDerived(rel, err)
		}
		sampleInputs[i] = content.ParseKeyValues(string(data))
	}

	var constraints []string
	if err := readJSON(root, constants.DerivedPaths.Constraints, &constraints); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return New(segments, formats, sampleInputs, constraints), nil
}

func (c *Catalog) Segments() []domain.Segment {
	return append([]domain.Segment(nil), c.segments...)
}

func (c *Catalog) Formats() []domain.Format {
	return append([]domain.Format(nil), c.formats...)
}

func (c *Catalog) Segment(id string) (domain.Segment, bool) {
	i, ok := c.segmentByID[id]
	if !ok {
		return domain.Segment{}, false
	}
	return c.segments[i], true
}

func (c *Catalog) Format(id string) (domain.Format, bool) {
	i, ok := c.formatByID[id]
	if !ok {
		return domain.Format{}, false
	}
	return c.formats[i], true
}

// Limits returns a fresh limits table for the format-limit enforcer.
func (c *Catalog) Limits() domain.LimitsTable {
	return domain.NewLimitsTable(c.formats)
}

// SampleInput returns sample input n (1 or 2).
func (c *Catalog) SampleInput(n int) (map[string]string, error) {
	if n < 1 || n > len(c.sampleInputs) {
		return nil, fmt.Errorf("sample input %d does not exist (expected 1 or 2)", n)
	}
	return copyMap(c.sampleInputs[n-1]), nil
}

func (c *Catalog) Constraints() []string {
	return append([]string{}, c.constraints...)
}

// Select resolves segment ids in the given order. Unknown ids fail the
// whole selection.
func (c *Catalog) Select(ids []string) ([]domain.Segment, error) {
	selected := make([]domain.Segment, 0, len(ids))
	var unknown []string
	for _, id := range ids {
		s, ok := c.Segment(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		selected = append(selected, s)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown segment ids: %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}

// SplitConstraints splits free text on newlines and ';'.
func SplitConstraints(text string) []string {
	normalized := strings.ReplaceAll(text, ";", "\n")
	result := []string{}
	for _, line := range strings.Split(normalized, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func readJSON(root, rel string, dest any) error {
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return missingDerived(rel, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", rel, err)
	}
	return nil
}

func missingDerived(rel string, err error) error {
	return errors.NewSourceFormatError(
		fmt.Sprintf("derived file %s is unavailable; run `segcraft sync` first", rel),
		nil, 0,
	).WithCause(err)
}

func copyMap(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
