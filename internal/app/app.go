package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsCurator/internal/config"
	"NewsCurator/internal/curate"
	"NewsCurator/internal/dedupe"
	"NewsCurator/internal/infrastructure/feedjson"
	"NewsCurator/internal/infrastructure/output"
	"NewsCurator/internal/infrastructure/runlock"
	"NewsCurator/internal/infrastructure/seenstore"
	"NewsCurator/internal/logging"
	"NewsCurator/internal/scoring"
	"NewsCurator/internal/usecase"
)

// Application wires configs to the batch pipeline and owns the store handle.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	store    *seenstore.Store
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := seenstore.Open(cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("open seen store: %w", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:       feedjson.New(cfg.Input.Path, baseLogger.With("component", "source")),
		Seen:         store,
		Writer:       output.New(cfg.Output.Dir, baseLogger.With("component", "writer")),
		Locker:       runlock.New(cfg.Cache.LockPath, cfg.Cache.LockTimeout()),
		Scorer:       scoring.New(cfg.Scoring, baseLogger.With("component", "scorer")),
		Deduplicator: dedupe.New(cfg.Dedupe, baseLogger.With("component", "dedupe")),
		Curator:      curate.New(cfg.Curation, baseLogger.With("component", "curator")),
		Retention:    cfg.Cache.Retention(),
		Logger:       baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, store: store}, nil
}

// Run performs a single batch execution.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}
	_, err := a.pipeline.Run(ctx, time.Now().UTC())
	return err
}

// Close releases the store handle.
func (a *Application) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
