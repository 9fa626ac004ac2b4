package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"NewsCurator/internal/curate"
	"NewsCurator/internal/dedupe"
	"NewsCurator/internal/domain"
	"NewsCurator/internal/normalize"
	"NewsCurator/internal/ports"
	"NewsCurator/internal/scoring"
)

// PipelineDeps wires all collaborators into the batch pipeline.
type PipelineDeps struct {
	Source       ports.EntrySource
	Seen         ports.SeenStore
	Writer       ports.ResultWriter
	Locker       ports.RunLocker
	Scorer       *scoring.Scorer
	Deduplicator *dedupe.Deduplicator
	Curator      *curate.Curator
	Retention    time.Duration
	Logger       *slog.Logger
}

// Pipeline implements one batch of the curation workflow:
// read raw entries → normalize → score → deduplicate → curate → write
// artifacts → record fingerprints. The whole batch runs under the exclusive
// run lock, and the seen store is only mutated after the curation result is
// durably written, so a failed run leaves prior state untouched.
type Pipeline struct {
	source       ports.EntrySource
	seen         ports.SeenStore
	writer       ports.ResultWriter
	locker       ports.RunLocker
	scorer       *scoring.Scorer
	deduplicator *dedupe.Deduplicator
	curator      *curate.Curator
	retention    time.Duration
	logger       *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:       deps.Source,
		seen:         deps.Seen,
		writer:       deps.Writer,
		locker:       deps.Locker,
		scorer:       deps.Scorer,
		deduplicator: deps.Deduplicator,
		curator:      deps.Curator,
		retention:    deps.Retention,
		logger:       deps.Logger,
	}
}

// Run executes a single batch. Per-article failures become rejection records;
// only lock acquisition and seen store errors abort the run.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (domain.CurationResult, error) {
	release, err := p.locker.Acquire(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCacheLockTimeout) {
			p.info("another run holds the lock, aborting", "error", err)
		}
		return domain.CurationResult{}, err
	}
	defer release()

	evicted, err := p.seen.EvictExpired(ctx, now, p.retention)
	if err != nil {
		return domain.CurationResult{}, fmt.Errorf("evict expired fingerprints: %w", err)
	}

	entries, err := p.source.Entries(ctx)
	if err != nil {
		return domain.CurationResult{}, fmt.Errorf("load raw entries: %w", err)
	}

	scored, rejected := p.scoreEntries(entries, now)

	dedupResult, err := p.deduplicator.Run(ctx, scored, p.seen)
	if err != nil {
		return domain.CurationResult{}, fmt.Errorf("deduplicate: %w", err)
	}
	for _, dup := range dedupResult.Duplicates {
		rejected = append(rejected, domain.Rejection{
			ScoredArticle: dup.Article,
			Reason:        domain.ReasonDuplicate,
			DuplicateOf:   dup.KeptID,
		})
	}

	result := p.curator.Curate(dedupResult.Kept, rejected, now)
	result.RunID = uuid.NewString()
	result.GeneratedAt = now.UTC()

	if err := p.writer.Write(ctx, result); err != nil {
		return domain.CurationResult{}, fmt.Errorf("write curation artifacts: %w", err)
	}

	// Record only after the artifacts are durable. A persistence failure
	// means the run is not committed; the caller retries the whole batch.
	if err := p.seen.Record(ctx, dedupResult.NewFingerprints, now); err != nil {
		return domain.CurationResult{}, fmt.Errorf("%w: %v", domain.ErrCachePersistence, err)
	}

	p.info("batch complete",
		"run_id", result.RunID,
		"input", len(entries),
		"curated", len(result.Curated),
		"rejected", len(result.Rejected),
		"duplicates", len(dedupResult.Duplicates),
		"evicted_fingerprints", evicted)

	return result, nil
}

// scoreEntries normalizes and scores the raw entries. Malformed entries
// (empty title and summary) never reach the scorer and come back as
// rejection records.
func (p *Pipeline) scoreEntries(entries []domain.RawEntry, now time.Time) ([]domain.ScoredArticle, []domain.Rejection) {
	var scored []domain.ScoredArticle
	var rejected []domain.Rejection

	for _, entry := range entries {
		article, err := normalize.Normalize(entry, now)
		if err != nil {
			if errors.Is(err, domain.ErrMalformedInput) {
				rejected = append(rejected, domain.Rejection{
					ScoredArticle: domain.ScoredArticle{
						Article: domain.Article{
							URL:        entry.Link,
							SourceName: entry.SourceName,
							ScrapedAt:  now.UTC(),
						},
						CurationID: uuid.NewString(),
						CuratedAt:  now.UTC(),
					},
					Reason: domain.ReasonMalformedInput,
				})
				continue
			}
			// Normalization only fails on malformed input today; anything
			// else would be a programming error worth surfacing loudly.
			p.info("unexpected normalization failure", "link", entry.Link, "error", err)
			continue
		}

		scoredArticle := p.scorer.Score(article)
		scoredArticle.CurationID = uuid.NewString()
		scoredArticle.CuratedAt = now.UTC()
		scored = append(scored, scoredArticle)
	}

	return scored, rejected
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
