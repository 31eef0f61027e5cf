package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/catalog"
	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/internal/service/generation"
	"github.com/kapu/segcraft-go/pkg/errors"
)

const fixture = "../../content/testdata/text.txt"

func TestSyncWritesDerivedFiles(t *testing.T) {
	defer goleak.VerifyNone(t)
	root := t.TempDir()

	report, err := NewSyncer(2, zap.NewNop()).Run(context.Background(), fixture, root)

	require.NoError(t, err)
	assert.Len(t, report.Files, 11)
	assert.Equal(t, [2]int{1, 0}, report.Truncated)
	for _, rel := range report.Files {
		assert.FileExists(t, filepath.Join(root, rel))
	}

	for rel := range regularFiles(t, root) {
		assert.False(t, strings.HasPrefix(filepath.Base(rel), "."), "temp file left behind: %s", rel)
	}
}

func TestSyncNormalizesSampleOutput(t *testing.T) {
	root := t.TempDir()
	_, err := NewSyncer(0, zap.NewNop()).Run(context.Background(), fixture, root)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, constants.DerivedPaths.SampleOutput1))
	require.NoError(t, err)
	var resp domain.Response
	require.NoError(t, json.Unmarshal(data, &resp))

	students := resp.Segments[0]
	require.Len(t, students.Copies, 2)
	overflow := students.Copies[1]
	assert.Equal(t, 81, overflow.CharCount.Body)
	assert.Equal(t, 81, len([]rune(overflow.Body)))
	require.NotEmpty(t, overflow.RiskFlags)
	assert.Equal(t, domain.RiskFormatOverflow, overflow.RiskFlags[len(overflow.RiskFlags)-1].Type)

	for _, seg := range resp.Segments {
		for _, c := range seg.Copies {
			assert.Equal(t, len([]rune(c.Headline)), c.CharCount.Headline)
		}
	}
	assert.Contains(t, string(data), "студент", "non-ASCII text is written literally")
}

func TestSyncOutputFeedsCatalogAndSamples(t *testing.T) {
	root := t.TempDir()
	_, err := NewSyncer(0, zap.NewNop()).Run(context.Background(), fixture, root)
	require.NoError(t, err)

	cat, err := catalog.Load(root)
	require.NoError(t, err)
	assert.Len(t, cat.Segments(), 7)
	assert.Len(t, cat.Formats(), 4)
	assert.Equal(t, 78, cat.Limits()["email_subject"].HeadlineMax)
	assert.NotEmpty(t, cat.Constraints())

	store := generation.LoadSampleStore(root)
	resp, err := store.Response("yadirect_text")
	require.NoError(t, err)
	assert.Equal(t, "yadirect_text", resp.InputEcho.FormatID)
	resp, err = store.Response("telegram_post")
	require.NoError(t, err)
	assert.Equal(t, "vk_ads", resp.InputEcho.FormatID)
}

func TestSyncWritesNothingOnError(t *testing.T) {
	raw, err := os.ReadFile(fixture)
	require.NoError(t, err)
	broken := strings.Replace(string(raw), "[SLIDES]", "[SLIDES_DRAFT]", 1)
	source := filepath.Join(t.TempDir(), "text.txt")
	require.NoError(t, os.WriteFile(source, []byte(broken), 0o644))
	root := t.TempDir()

	_, err = NewSyncer(0, zap.NewNop()).Run(context.Background(), source, root)

	var sourceErr *errors.SourceFormatError
	require.ErrorAs(t, err, &sourceErr)
	assert.Contains(t, sourceErr.Sections, constants.SectionSlides)
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSyncMissingSource(t *testing.T) {
	_, err := NewSyncer(0, zap.NewNop()).Run(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), t.TempDir())

	var sourceErr *errors.SourceFormatError
	require.ErrorAs(t, err, &sourceErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildRejectsInvalidSample(t *testing.T) {
	raw, err := os.ReadFile(fixture)
	require.NoError(t, err)
	// Turning the variants count to 3 breaks the copies invariant of sample 1.
	broken := strings.Replace(string(raw), `"variants_per_segment": 2`, `"variants_per_segment": 3`, 1)
	source := filepath.Join(t.TempDir(), "text.txt")
	require.NoError(t, os.WriteFile(source, []byte(broken), 0o644))

	_, err = NewSyncer(0, zap.NewNop()).Run(context.Background(), source, t.TempDir())

	var sourceErr *errors.SourceFormatError
	require.ErrorAs(t, err, &sourceErr)
	assert.Equal(t, []string{constants.SectionSampleOutput1JSON}, sourceErr.Sections)
	assert.Contains(t, err.Error(), "segment_id=students")
}

func regularFiles(t *testing.T, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestSyncStagingFailureWritesNothing(t *testing.T) {
	root := t.TempDir()
	// A plain file where the deck directory belongs makes one write fail.
	require.NoError(t, os.WriteFile(filepath.Join(root, "deck"), []byte("blocker"), 0o644))

	_, err := NewSyncer(4, zap.NewNop()).Run(context.Background(), fixture, root)

	require.Error(t, err)
	assert.Equal(t, map[string]string{"deck": "blocker"}, regularFiles(t, root))
}

func TestSyncSwapFailureRestoresPreviousFiles(t *testing.T) {
	root := t.TempDir()
	_, err := NewSyncer(0, zap.NewNop()).Run(context.Background(), fixture, root)
	require.NoError(t, err)

	// Segments are swapped in before the deck config, so this edit must survive.
	segmentsPath := filepath.Join(root, constants.DerivedPaths.Segments)
	require.NoError(t, os.WriteFile(segmentsPath, []byte("previous"), 0o644))
	before := regularFiles(t, root)

	s := NewSyncer(0, zap.NewNop())
	s.rename = func(oldpath, newpath string) error {
		if filepath.Base(newpath) == filepath.Base(constants.DerivedPaths.DeckConfig) {
			return os.ErrPermission
		}
		return os.Rename(oldpath, newpath)
	}

	_, err = s.Run(context.Background(), fixture, root)

	require.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, before, regularFiles(t, root))
}
