// Package history records terminal generation results: a capped recent list
// in Redis and an append-only archive in PostgreSQL.
package history

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"
)

// Run is one terminal generation outcome.
type Run struct {
	ID           string          `json:"id"`
	Mode         string          `json:"mode"`
	FormatID     string          `json:"format_id"`
	Repaired     bool            `json:"repaired"`
	Calls        int             `json:"model_calls"`
	FailureStage string          `json:"failure_stage,omitempty"`
	Error        string          `json:"error,omitempty"`
	RawText      string          `json:"raw_text,omitempty"`
	Response     json.RawMessage `json:"response,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type Recorder interface {
	Record(ctx context.Context, run Run) error
}

// Reader serves recently recorded runs.
type Reader interface {
	Recent(ctx context.Context, limit int) ([]Run, error)
	Get(ctx context.Context, id string) (*Run, error)
}

type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Run) error { return nil }

// MultiRecorder fans a run out to every recorder and joins their errors.
type MultiRecorder []Recorder

func (m MultiRecorder) Record(ctx context.Context, run Run) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, run); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
