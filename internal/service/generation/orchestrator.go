// Package generation runs one generation request: dispatch to the mock or
// live path, extraction and validation of the model output, and at most one
// repair round.
package generation

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/internal/prompt"
	"github.com/kapu/segcraft-go/internal/response"
	"github.com/kapu/segcraft-go/internal/service/ai"
	"github.com/kapu/segcraft-go/pkg/errors"
)

// Generator is the live model contract: one prompt in, one completion out.
type Generator interface {
	Generate(ctx context.Context, prompt string, preset ai.ModelPreset) (string, *ai.GenerateMetadata, error)
}

type Mode string

const (
	ModeMock         Mode = "mock"
	ModeLLM          Mode = "llm"
	ModeMockFallback Mode = "mock-fallback"
)

type Stage string

const (
	StageExtraction Stage = "extraction"
	StageValidation Stage = "validation"
	StageClient     Stage = "client"
	StageMockAsset  Stage = "mock_asset"
)

type State int

const (
	StateIdle State = iota
	StateDispatch
	StateMockPath
	StateLivePath
	StateParseValidate
	StateRepairDispatch
	StateRepairParseValidate
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatch:
		return "dispatch"
	case StateMockPath:
		return "mock_path"
	case StateLivePath:
		return "live_path"
	case StateParseValidate:
		return "parse_validate"
	case StateRepairDispatch:
		return "repair_dispatch"
	case StateRepairParseValidate:
		return "repair_parse_validate"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Request struct {
	Input     domain.CaseInput
	ForceMock bool
}

// Result is a trusted response together with its provenance.
type Result struct {
	ID        uuid.UUID            `json:"id"`
	Response  *domain.Response     `json:"response"`
	Mode      Mode                 `json:"mode"`
	RawText   string               `json:"raw_text,omitempty"`
	Repaired  bool                 `json:"repaired"`
	Metadata  *ai.GenerateMetadata `json:"metadata,omitempty"`
	Calls     int                  `json:"model_calls"`
	Truncated int                  `json:"truncated_variants"`
	Warnings  []string             `json:"warnings,omitempty"`
	Trace     []State              `json:"-"`

	// FallbackCause is the error that sent the run to the canned sample.
	FallbackCause error `json:"-"`
}

// Failure is the terminal error after the repair round failed as well.
type Failure struct {
	Stage      Stage
	Cause      error
	FirstCause error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("no valid JSON after the repair attempt; enable mock mode or use a sample output. Cause: %v", f.Cause)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Orchestrator is safe for concurrent use; every Run owns its own state.
type Orchestrator struct {
	model   Generator
	samples *SampleStore
	limits  domain.LimitsTable
	logger  *zap.Logger
}

// NewOrchestrator wires the orchestrator. A nil model means no live client is
// configured and every request takes the mock path.
func NewOrchestrator(model Generator, samples *SampleStore, limits domain.LimitsTable, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		model:   model,
		samples: samples,
		limits:  limits,
		logger:  logger,
	}
}

type run struct {
	o        *Orchestrator
	req      Request
	state    State
	trace    []State
	raw      string
	firstErr error
	repaired bool
	calls    int
	metadata *ai.GenerateMetadata
	resp     *domain.Response
	mode     Mode
}

// Run executes one request through the state machine. It makes at most two
// model calls.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	r, err := o.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return r.result(), nil
}

func (o *Orchestrator) execute(ctx context.Context, req Request) (*run, error) {
	r := &run{o: o, req: req, state: StateIdle}

	for {
		r.trace = append(r.trace, r.state)

		switch r.state {
		case StateIdle:
			r.state = StateDispatch

		case StateDispatch:
			if req.ForceMock || o.model == nil {
				r.state = StateMockPath
			} else {
				r.state = StateLivePath
			}

		case StateMockPath:
			resp, err := o.samples.Response(req.Input.Format.FormatID)
			if err != nil {
				return r, r.fail(StageMockAsset, err)
			}
			r.resp = resp
			r.mode = ModeMock
			r.state = StateSuccess

		case StateLivePath:
			if err := r.call(ctx, prompt.BuildCaseBundle(req.Input), ai.PresetGenerate); err != nil {
				return r, r.fail(StageClient, err)
			}
			r.state = StateParseValidate

		case StateParseValidate:
			resp, err := response.ParseAndValidate(r.raw)
			if err != nil {
				o.logger.Warn("Model output rejected, requesting repair",
					zap.String("stage", string(stageOf(err))),
					zap.Error(err),
				)
				r.firstErr = err
				r.state = StateRepairDispatch
				continue
			}
			r.accept(resp)

		case StateRepairDispatch:
			if err := r.call(ctx, prompt.BuildRepairPrompt(r.firstErr, r.raw), ai.PresetRepair); err != nil {
				return r, r.fail(StageClient, err)
			}
			r.repaired = true
			r.state = StateRepairParseValidate

		case StateRepairParseValidate:
			resp, err := response.ParseAndValidate(r.raw)
			if err != nil {
				return r, r.fail(stageOf(err), &Failure{
					Stage:      stageOf(err),
					Cause:      err,
					FirstCause: r.firstErr,
				})
			}
			r.accept(resp)

		case StateSuccess:
			return r, nil

		default:
			return r, fmt.Errorf("generation reached unexpected state %s", r.state)
		}
	}
}

func (r *run) call(ctx context.Context, text string, preset ai.ModelPreset) error {
	r.calls++
	raw, metadata, err := r.o.model.Generate(ctx, text, preset)
	if err != nil {
		var clientErr *errors.ClientError
		if !stderrors.As(err, &clientErr) {
			err = errors.NewClientError("model request failed", "", err)
		}
		return err
	}
	r.raw = raw
	r.metadata = metadata
	return nil
}

func (r *run) accept(resp *domain.Response) {
	r.resp = resp
	r.mode = ModeLLM
	r.state = StateSuccess
}

func (r *run) fail(stage Stage, err error) error {
	r.trace = append(r.trace, StateFailure)
	r.o.logger.Error("Generation failed",
		zap.String("stage", string(stage)),
		zap.Int("model_calls", r.calls),
		zap.Error(err),
	)
	return err
}

func (r *run) result() *Result {
	res := &Result{
		ID:       uuid.New(),
		Response: r.resp,
		Mode:     r.mode,
		Repaired: r.repaired,
		Metadata: r.metadata,
		Calls:    r.calls,
		Trace:    r.trace,
	}
	if r.mode == ModeLLM {
		res.RawText = r.raw
		res.Truncated = response.EnforceFormatLimits(r.resp, r.o.limits)
	}
	res.Warnings = segmentCountWarnings(r.resp, r.req.Input.Segments)
	return res
}

// RunWithFallback substitutes the canned sample when the live path ends in a
// Failure or ClientError. Mock asset problems are returned unchanged.
func (o *Orchestrator) RunWithFallback(ctx context.Context, req Request) (*Result, error) {
	r, err := o.execute(ctx, req)
	if err == nil {
		return r.result(), nil
	}

	var failure *Failure
	var clientErr *errors.ClientError
	if !stderrors.As(err, &failure) && !stderrors.As(err, &clientErr) {
		return nil, err
	}

	resp, sampleErr := o.samples.Response(req.Input.Format.FormatID)
	if sampleErr != nil {
		return nil, sampleErr
	}

	o.logger.Warn("Showing canned sample as fallback",
		zap.String("format_id", req.Input.Format.FormatID),
		zap.Error(err),
	)

	return &Result{
		ID:            uuid.New(),
		Response:      resp,
		Mode:          ModeMockFallback,
		Calls:         r.calls,
		Trace:         r.trace,
		Warnings:      append([]string{err.Error()}, segmentCountWarnings(resp, req.Input.Segments)...),
		FallbackCause: err,
	}, nil
}

func stageOf(err error) Stage {
	var extractionErr *errors.ExtractionError
	if stderrors.As(err, &extractionErr) {
		return StageExtraction
	}
	return StageValidation
}

func segmentCountWarnings(resp *domain.Response, selected []domain.Segment) []string {
	if resp == nil || len(selected) == 0 || len(resp.Segments) == len(selected) {
		return nil
	}
	return []string{fmt.Sprintf(
		"response has %d segments but %d were selected; check the input or generate again",
		len(resp.Segments), len(selected),
	)}
}
