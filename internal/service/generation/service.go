package generation

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/catalog"
	"github.com/kapu/segcraft-go/internal/service/history"
	"github.com/kapu/segcraft-go/pkg/errors"
)

// Service is the entry point used by the CLI and the HTTP API: it resolves
// params against the catalog, runs the orchestrator and records the outcome.
type Service struct {
	catalog      *catalog.Catalog
	orchestrator *Orchestrator
	recorder     history.Recorder
	fallback     bool
	logger       *zap.Logger
}

type ServiceConfig struct {
	// Fallback substitutes the canned sample when the live path fails.
	Fallback bool
}

func NewService(cat *catalog.Catalog, o *Orchestrator, recorder history.Recorder, cfg ServiceConfig, logger *zap.Logger) *Service {
	if recorder == nil {
		recorder = history.NopRecorder{}
	}
	return &Service{
		catalog:      cat,
		orchestrator: o,
		recorder:     recorder,
		fallback:     cfg.Fallback,
		logger:       logger,
	}
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Generate validates params and runs one request. Failed runs are recorded
// too; recording problems are logged and never fail the request.
func (s *Service) Generate(ctx context.Context, params RequestParams) (*Result, error) {
	req, err := BuildRequest(s.catalog, params)
	if err != nil {
		return nil, err
	}

	var res *Result
	if s.fallback {
		res, err = s.orchestrator.RunWithFallback(ctx, req)
	} else {
		res, err = s.orchestrator.Run(ctx, req)
	}

	s.record(ctx, req, res, err)
	return res, err
}

func (s *Service) record(ctx context.Context, req Request, res *Result, runErr error) {
	run := history.Run{
		FormatID:  req.Input.Format.FormatID,
		CreatedAt: time.Now().UTC(),
	}

	if runErr != nil {
		run.ID = uuid.NewString()
		run.FailureStage = string(failureStage(runErr))
		run.Error = runErr.Error()
	} else {
		run.ID = res.ID.String()
		run.Mode = string(res.Mode)
		run.Repaired = res.Repaired
		run.Calls = res.Calls
		run.RawText = res.RawText
		if res.FallbackCause != nil {
			run.FailureStage = string(failureStage(res.FallbackCause))
			run.Error = res.FallbackCause.Error()
		}
		if data, err := json.Marshal(res.Response); err == nil {
			run.Response = data
		}
	}

	// Recording must outlive a cancelled request context.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.recorder.Record(recordCtx, run); err != nil {
		s.logger.Warn("Failed to record generation run", zap.String("id", run.ID), zap.Error(err))
	}
}

func failureStage(err error) Stage {
	var failure *Failure
	if stderrors.As(err, &failure) {
		return failure.Stage
	}
	var assetErr *errors.MockAssetError
	if stderrors.As(err, &assetErr) {
		return StageMockAsset
	}
	return StageClient
}
