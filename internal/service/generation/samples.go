package generation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/internal/response"
	"github.com/kapu/segcraft-go/pkg/errors"
)

type sampleEntry struct {
	path string
	data []byte
	err  error
}

// SampleStore holds the two canned responses used by the mock path. Entries
// are validated once and decoded fresh for every request, so callers may
// mutate what they receive.
type SampleStore struct {
	entries [2]sampleEntry
}

// LoadSampleStore reads the canned outputs from the output root. A missing
// or invalid file does not fail loading; it fails the requests that need it.
func LoadSampleStore(root string) *SampleStore {
	store := &SampleStore{}
	for i, rel := range []string{constants.DerivedPaths.SampleOutput1, constants.DerivedPaths.SampleOutput2} {
		path := filepath.Join(root, rel)
		data, err := os.ReadFile(path)
		if err != nil {
			store.entries[i] = sampleEntry{
				path: path,
				err:  errors.NewMockAssetError(fmt.Sprintf("mock file not found: %s; run `segcraft sync` first", path), path, err),
			}
			continue
		}
		store.entries[i] = newSampleEntry(path, data)
	}
	return store
}

// NewSampleStore builds a store from in-memory documents.
func NewSampleStore(primary, secondary []byte) *SampleStore {
	return &SampleStore{entries: [2]sampleEntry{
		newSampleEntry(constants.DerivedPaths.SampleOutput1, primary),
		newSampleEntry(constants.DerivedPaths.SampleOutput2, secondary),
	}}
}

func newSampleEntry(path string, data []byte) sampleEntry {
	if _, err := response.DecodeAndValidate(data); err != nil {
		return sampleEntry{
			path: path,
			err:  errors.NewMockAssetError(fmt.Sprintf("mock file %s is not a valid response", path), path, err),
		}
	}
	return sampleEntry{path: path, data: append([]byte(nil), data...)}
}

// Response returns the canned response for a format: sample 1 for the
// primary format, sample 2 for everything else.
func (s *SampleStore) Response(formatID string) (*domain.Response, error) {
	entry := s.entryFor(formatID)
	if entry.err != nil {
		return nil, entry.err
	}
	resp, err := response.DecodeAndValidate(entry.data)
	if err != nil {
		return nil, errors.NewMockAssetError(fmt.Sprintf("mock file %s is not a valid response", entry.path), entry.path, err)
	}
	return resp, nil
}

// Path reports which file serves formatID.
func (s *SampleStore) Path(formatID string) string {
	return s.entryFor(formatID).path
}

func (s *SampleStore) entryFor(formatID string) sampleEntry {
	if formatID == constants.MockPrimaryFormatID {
		return s.entries[0]
	}
	return s.entries[1]
}
