package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/internal/util"
	"github.com/kapu/segcraft-go/pkg/errors"
)

// ModelManager is the live model client handed to the orchestrator. It talks
// to exactly one provider and never retries. Repeated provider failures open
// a circuit breaker and later calls fail fast until it resets.
type ModelManager struct {
	provider Provider
	breaker  *util.CircuitBreaker
	logger   *zap.Logger
}

type ModelManagerConfig struct {
	Provider     string
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
}

// NewModelManager returns nil when the selected provider has no credential;
// callers treat that as "no live client" and use the mock path.
func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	var provider Provider

	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini:
		gemini, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			return nil, err
		}
		if gemini != nil {
			provider = gemini
		}
	case ProviderOpenAI, "":
		if openaiProvider := NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger); openaiProvider != nil {
			provider = openaiProvider
		}
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}

	if provider == nil {
		logger.Info("Live model disabled (no API key), generation runs in mock mode",
			zap.String("provider", cfg.Provider),
		)
		return nil, nil
	}

	logger.Info("Live model enabled", zap.String("provider", provider.Name()))
	return NewModelManagerWithProvider(provider, logger), nil
}

func NewModelManagerWithProvider(provider Provider, logger *zap.Logger) *ModelManager {
	return &ModelManager{
		provider: provider,
		breaker: util.NewCircuitBreaker(
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
		logger: logger,
	}
}

// Generate sends one prompt. Transport failures and blank completions are
// reported as ClientError.
func (mm *ModelManager) Generate(ctx context.Context, prompt string, preset ModelPreset) (string, *GenerateMetadata, error) {
	name := mm.provider.Name()

	if !mm.breaker.CanExecute() {
		return "", nil, errors.NewClientError(
			fmt.Sprintf("%s is temporarily unavailable after repeated failures; enable mock mode to continue offline", name), name, nil,
		)
	}

	result, err := mm.provider.Generate(ctx, prompt, preset)
	if err != nil {
		if !callerGaveUp(ctx, err) {
			mm.breaker.RecordFailure()
		}
		return "", nil, errors.NewClientError(
			fmt.Sprintf("%s request failed; enable mock mode to continue offline", name), name, err,
		)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		mm.breaker.RecordFailure()
		return "", nil, errors.NewClientError(
			fmt.Sprintf("%s returned an empty response", name), name, nil,
		)
	}

	mm.breaker.RecordSuccess()
	mm.logger.Debug("Model response",
		zap.String("provider", name),
		zap.String("preset", string(preset)),
		zap.String("response_preview", util.Preview(text, constants.GenerationConfig.RawPreviewLength)),
	)

	return text, &GenerateMetadata{Provider: name, Model: result.Model}, nil
}

// callerGaveUp reports failures caused by the caller's own cancellation or
// deadline. They say nothing about provider health. A provider-side timeout
// while ctx is still live does count.
func callerGaveUp(ctx context.Context, err error) bool {
	if stderrors.Is(err, context.Canceled) {
		return true
	}
	return ctx.Err() != nil && stderrors.Is(err, context.DeadlineExceeded)
}
