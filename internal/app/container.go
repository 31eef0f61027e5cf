package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/catalog"
	"github.com/kapu/segcraft-go/internal/config"
	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/internal/prompt"
	"github.com/kapu/segcraft-go/internal/server"
	"github.com/kapu/segcraft-go/internal/service/ai"
	"github.com/kapu/segcraft-go/internal/service/cache"
	"github.com/kapu/segcraft-go/internal/service/database"
	"github.com/kapu/segcraft-go/internal/service/generation"
	"github.com/kapu/segcraft-go/internal/service/history"
)

// Container bundles assembled services for the CLI commands and the API.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Catalog *catalog.Catalog
	Service *generation.Service
	// History is nil unless Redis is enabled.
	History history.Reader

	closers []func()
}

// Build loads the derived catalog and assembles the generation stack. The
// catalog must exist; run sync first. Redis and PostgreSQL are optional and
// only feed the run history.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	cat, err := catalog.Load(cfg.Content.OutputDir)
	if err != nil {
		return nil, err
	}
	c.Catalog = cat
	samples := generation.LoadSampleStore(cfg.Content.OutputDir)

	// AI stack
	var model generation.Generator
	if !cfg.Generation.ForceMock {
		manager, err := ai.NewModelManager(ctx, ai.ModelManagerConfig{
			Provider:     cfg.LLM.Provider,
			OpenAIAPIKey: cfg.LLM.OpenAIAPIKey,
			OpenAIModel:  cfg.LLM.OpenAIModel,
			GeminiAPIKey: cfg.LLM.GeminiAPIKey,
			GeminiModel:  cfg.LLM.GeminiModel,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create model manager: %w", err)
		}
		// A nil manager must stay an untyped nil so the orchestrator sees no client.
		if manager != nil {
			model = manager
		}
	}

	if err := prompt.DefaultPromptBuilder().Preload(); err != nil {
		logger.Warn("Prompt templates unusable, using built-in prompt text", zap.Error(err))
	}

	recorders, err := c.buildHistory(ctx)
	if err != nil {
		return nil, err
	}

	orchestrator := generation.NewOrchestrator(model, samples, cat.Limits(), logger)
	c.Service = generation.NewService(cat, orchestrator, recorders, generation.ServiceConfig{
		Fallback: true,
	}, logger)

	logger.Info("Container ready",
		zap.Int("segments", len(cat.Segments())),
		zap.Int("formats", len(cat.Formats())),
		zap.Bool("live_model", model != nil),
		zap.Bool("history", c.History != nil),
	)
	return c, nil
}

func (c *Container) buildHistory(ctx context.Context) (history.Recorder, error) {
	cfg := c.Config
	var recorders history.MultiRecorder

	if cfg.Redis.Enabled {
		cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", err)
		}
		c.closers = append(c.closers, func() {
			_ = cacheSvc.Close()
		})

		redisRecorder := history.NewRedisRecorder(cacheSvc, cfg.Redis.HistoryLimit, c.Logger)
		recorders = append(recorders, redisRecorder)
		c.History = redisRecorder
	}

	if cfg.Postgres.Enabled {
		postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres service: %w", err)
		}
		c.closers = append(c.closers, func() {
			_ = postgresSvc.Close()
		})

		if err := postgresSvc.EnsureSchema(ctx, constants.HistoryConfig.PostgresTable); err != nil {
			return nil, err
		}
		recorders = append(recorders, history.NewPostgresRecorder(postgresSvc.GetDB(), c.Logger))
	}

	if len(recorders) == 0 {
		return history.NopRecorder{}, nil
	}
	return recorders, nil
}

// Handler builds the HTTP router over the container's services.
func (c *Container) Handler() http.Handler {
	h := server.NewHandler(c.Service, c.History, c.Config.Generation.Timeout, c.Logger)
	return server.NewRouter(server.RouterConfig{
		Handler:     h,
		CORSOrigins: c.Config.Server.CORSOrigins,
		Logger:      c.Logger,
	})
}

// Close releases infrastructure clients in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
