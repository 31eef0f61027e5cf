package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/internal/domain"
)

func testCatalog() *Catalog {
	return New(
		[]domain.Segment{
			{SegmentID: "a", Name: "A"},
			{SegmentID: "b", Name: "B"},
			{SegmentID: "c", Name: "C"},
		},
		[]domain.Format{
			{FormatID: "f1", Limits: domain.FormatLimits{HeadlineMax: 10, BodyMax: 20}},
		},
		[2]map[string]string{{"format_id": "f1"}, {"format_id": "f2"}},
		[]string{"no lies"},
	)
}

func TestSelectKeepsRequestOrder(t *testing.T) {
	segments, err := testCatalog().Select([]string{"c", "a"})

	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "C", segments[0].Name)
	assert.Equal(t, "A", segments[1].Name)
}

func TestSelectUnknownIDs(t *testing.T) {
	_, err := testCatalog().Select([]string{"z", "a", "y"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "y, z")
}

func TestCatalogIsImmutable(t *testing.T) {
	cat := testCatalog()

	segments := cat.Segments()
	segments[0].Name = "changed"
	sample, err := cat.SampleInput(1)
	require.NoError(t, err)
	sample["format_id"] = "changed"
	cat.Limits()["f1"] = domain.FormatLimits{}

	again, _ := cat.SampleInput(1)
	assert.Equal(t, "A", cat.Segments()[0].Name)
	assert.Equal(t, "f1", again["format_id"])
	assert.Equal(t, 10, cat.Limits()["f1"].HeadlineMax)
}

func TestSampleInputRange(t *testing.T) {
	_, err := testCatalog().SampleInput(3)
	assert.Error(t, err)

	_, err = testCatalog().SampleInput(0)
	assert.Error(t, err)
}

func TestSplitConstraints(t *testing.T) {
	got := SplitConstraints("no lies; no superlatives\n\n  keep it short ;")

	assert.Equal(t, []string{"no lies", "no superlatives", "keep it short"}, got)
	assert.Empty(t, SplitConstraints("  "))
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		constants.DerivedPaths.Segments:     `[{"segment_id": "a", "name": "A"}]`,
		constants.DerivedPaths.Formats:      `[{"format_id": "f1", "name": "F", "limits": {"headline_max": 5, "body_max": 0}}]`,
		constants.DerivedPaths.SampleInput1: "title=one\nformat_id=f1\n",
		constants.DerivedPaths.SampleInput2: "title=two\n",
	}
	for rel, body := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	cat, err := Load(root)
	require.NoError(t, err)

	f, ok := cat.Format("f1")
	require.True(t, ok)
	assert.Equal(t, 5, f.Limits.HeadlineMax)
	sample, err := cat.SampleInput(2)
	require.NoError(t, err)
	assert.Equal(t, "two", sample["title"])
	assert.Empty(t, cat.Constraints())
}

func TestLoadMissingFiles(t *testing.T) {
	_, err := Load(t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "segcraft sync")
}
