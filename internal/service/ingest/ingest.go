// Package ingest turns the unified content source into the derived files the
// rest of the system reads.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/artifact"
	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/internal/content"
	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/internal/response"
	"github.com/kapu/segcraft-go/pkg/errors"
)

// Report summarizes a completed sync.
type Report struct {
	Root  string
	Files []string
	// Truncated counts shortened variants per sample output.
	Truncated [2]int
}

type Syncer struct {
	concurrency int
	logger      *zap.Logger
	rename      func(oldpath, newpath string) error
}

func NewSyncer(concurrency int, logger *zap.Logger) *Syncer {
	if concurrency <= 0 {
		concurrency = constants.SyncConfig.WriteConcurrency
	}
	return &Syncer{concurrency: concurrency, logger: logger, rename: os.Rename}
}

// Run parses source and writes every derived file under root. Nothing is
// written unless the whole source parses and every artifact builds, and a
// failed write leaves the previous derived files in place.
func (s *Syncer) Run(ctx context.Context, source, root string) (*Report, error) {
	raw, err := content.ReadSource(source)
	if err != nil {
		return nil, err
	}
	doc, err := content.Parse(raw)
	if err != nil {
		return nil, err
	}

	files, truncated, err := Build(doc)
	if err != nil {
		return nil, err
	}

	if err := s.write(ctx, root, files); err != nil {
		return nil, err
	}

	report := &Report{Root: root, Truncated: truncated}
	for _, f := range files {
		report.Files = append(report.Files, f.Path)
	}
	s.logger.Info("Sync complete",
		zap.String("source", source),
		zap.String("root", root),
		zap.Int("files", len(files)),
		zap.Int("segments", len(doc.Segments)),
		zap.Int("formats", len(doc.Formats)),
		zap.Int("slides", len(doc.Slides)),
	)
	return report, nil
}

// Build produces every derived file from a parsed document without touching
// the filesystem.
func Build(doc *content.Document) ([]artifact.File, [2]int, error) {
	var truncated [2]int

	demo, err := artifact.DemoScriptMarkdown(doc.DemoSteps)
	if err != nil {
		return nil, truncated, err
	}

	files := []artifact.File{
		artifact.TextFile(constants.DerivedPaths.SampleInput1, artifact.SampleInputText(doc.SampleInputs[0])),
		artifact.TextFile(constants.DerivedPaths.SampleInput2, artifact.SampleInputText(doc.SampleInputs[1])),
		artifact.TextFile(constants.DerivedPaths.DemoScript, demo),
		artifact.TextFile(constants.DerivedPaths.Answers, artifact.MarkdownPage(doc.AnswersMD)),
		artifact.TextFile(constants.DerivedPaths.Pitch, artifact.MarkdownPage(doc.PitchMD)),
	}

	jsonDocs := []struct {
		path  string
		value any
	}{
		{constants.DerivedPaths.Segments, doc.Segments},
		{constants.DerivedPaths.Formats, doc.Formats},
		{constants.DerivedPaths.DeckConfig, artifact.BuildDeckConfig(doc.Meta, doc.Slides)},
		{constants.DerivedPaths.Constraints, doc.Constraints},
	}

	limits := doc.FormatLimits()
	samples := []struct {
		path    string
		section string
	}{
		{constants.DerivedPaths.SampleOutput1, constants.SectionSampleOutput1JSON},
		{constants.DerivedPaths.SampleOutput2, constants.SectionSampleOutput2JSON},
	}
	for i, sample := range samples {
		resp, n, err := normalizeSample(doc.SampleOutputs[i], sample.section, limits)
		if err != nil {
			return nil, truncated, err
		}
		truncated[i] = n
		jsonDocs = append(jsonDocs, struct {
			path  string
			value any
		}{sample.path, resp})
	}

	for _, d := range jsonDocs {
		f, err := artifact.JSONFile(d.path, d.value)
		if err != nil {
			return nil, truncated, err
		}
		files = append(files, f)
	}
	return files, truncated, nil
}

// normalizeSample makes a canned output trustworthy for the mock path: counts
// recomputed, limits enforced, schema and invariants checked.
func normalizeSample(data []byte, section string, limits domain.LimitsTable) (*domain.Response, int, error) {
	resp, err := response.Decode(data)
	if err != nil {
		return nil, 0, sampleError(section, err)
	}
	resp.SyncCharCounts()
	n := response.EnforceFormatLimits(resp, limits)
	if err := response.Validate(resp); err != nil {
		return nil, 0, sampleError(section, err)
	}
	return resp, n, nil
}

func sampleError(section string, cause error) error {
	return errors.NewSourceFormatError(
		fmt.Sprintf("[%s] is not a valid response document", section),
		[]string{section}, 0,
	).WithCause(cause)
}

// write stages every file next to its target, then swaps them in. A failure
// while staging leaves the previous files untouched; a failure while swapping
// restores the files already replaced.
func (s *Syncer) write(ctx context.Context, root string, files []artifact.File) error {
	staged := make([]stagedFile, len(files))
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(s.concurrency)
	for i, f := range files {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sf, err := stageFile(filepath.Join(root, filepath.FromSlash(f.Path)), f.Data)
			if err != nil {
				return err
			}
			staged[i] = sf
			return nil
		})
	}
	err := p.Wait()
	defer func() {
		for _, sf := range staged {
			if sf.tmp != "" {
				_ = os.Remove(sf.tmp)
			}
		}
	}()
	if err != nil {
		return err
	}

	return s.commit(staged)
}

type stagedFile struct {
	target string
	tmp    string
}

// stageFile writes data to a hidden sibling of path.
func stageFile(path string, data []byte) (stagedFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return stagedFile{}, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return stagedFile{}, fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return stagedFile{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return stagedFile{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return stagedFile{target: path, tmp: tmp.Name()}, nil
}

type committedFile struct {
	target string
	// backup is empty when the target did not exist before.
	backup string
}

func (s *Syncer) commit(staged []stagedFile) error {
	var done []committedFile
	for i := range staged {
		sf := &staged[i]
		c := committedFile{target: sf.target}

		if _, err := os.Lstat(sf.target); err == nil {
			c.backup = sf.tmp + ".prev"
			if err := s.rename(sf.target, c.backup); err != nil {
				s.rollback(done)
				return fmt.Errorf("failed to replace %s: %w", sf.target, err)
			}
		}
		if err := s.rename(sf.tmp, sf.target); err != nil {
			s.rollback(append(done, c))
			return fmt.Errorf("failed to replace %s: %w", sf.target, err)
		}
		sf.tmp = ""
		done = append(done, c)
	}

	for _, c := range done {
		if c.backup != "" {
			_ = os.Remove(c.backup)
		}
	}
	return nil
}

// rollback puts back the previous version of every committed file, newest first.
func (s *Syncer) rollback(done []committedFile) {
	for i := len(done) - 1; i >= 0; i-- {
		c := done[i]
		if c.backup == "" {
			_ = os.Remove(c.target)
			continue
		}
		if err := s.rename(c.backup, c.target); err != nil {
			s.logger.Error("Failed to restore derived file",
				zap.String("path", c.target),
				zap.String("backup", c.backup),
				zap.Error(err),
			)
		}
	}
}
