package output

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"NewsCurator/internal/domain"
	"NewsCurator/internal/ports"
)

const (
	curatedFile  = "curated_articles.json"
	rejectedFile = "rejected_articles.json"
)

// Writer persists the curation artifacts consumed by the website
// collaborator: a curated file and a rejected file, each with run metadata.
type Writer struct {
	dir    string
	logger *slog.Logger
}

var _ ports.ResultWriter = (*Writer)(nil)

// New wires a writer targeting the given directory.
func New(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

type scoreStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

type curatedArtifact struct {
	Metadata curatedMetadata        `json:"metadata"`
	Articles []domain.ScoredArticle `json:"curated_articles"`
}

type curatedMetadata struct {
	RunID       string                `json:"run_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Threshold   float64               `json:"quality_threshold"`
	Total       int                   `json:"total_curated"`
	Statistics  map[string]scoreStats `json:"statistics,omitempty"`
}

type rejectedArtifact struct {
	Metadata rejectedMetadata   `json:"metadata"`
	Articles []domain.Rejection `json:"rejected_articles"`
}

type rejectedMetadata struct {
	RunID       string                         `json:"run_id"`
	GeneratedAt time.Time                      `json:"generated_at"`
	Total       int                            `json:"total_rejected"`
	Summary     map[domain.RejectionReason]int `json:"rejection_summary"`
}

// Write persists both artifacts atomically (temp file + rename), so the
// website collaborator never observes a half-written feed.
func (w *Writer) Write(ctx context.Context, result domain.CurationResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	curated := curatedArtifact{
		Metadata: curatedMetadata{
			RunID:       result.RunID,
			GeneratedAt: result.GeneratedAt,
			Threshold:   result.Threshold,
			Total:       len(result.Curated),
			Statistics:  statistics(result.Curated),
		},
		Articles: result.Curated,
	}
	if err := w.writeJSON(curatedFile, curated); err != nil {
		return err
	}

	rejected := rejectedArtifact{
		Metadata: rejectedMetadata{
			RunID:       result.RunID,
			GeneratedAt: result.GeneratedAt,
			Total:       len(result.Rejected),
			Summary:     result.RejectionSummary(),
		},
		Articles: result.Rejected,
	}
	if err := w.writeJSON(rejectedFile, rejected); err != nil {
		return err
	}

	w.debug("artifacts written",
		"dir", w.dir,
		"curated", len(result.Curated),
		"rejected", len(result.Rejected))
	return nil
}

func (w *Writer) writeJSON(name string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	target := filepath.Join(w.dir, name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// statistics summarizes score distributions of the curated set.
func statistics(articles []domain.ScoredArticle) map[string]scoreStats {
	if len(articles) == 0 {
		return nil
	}

	extract := map[string]func(domain.ScoredArticle) float64{
		"quality":    func(a domain.ScoredArticle) float64 { return a.QualityScore },
		"relevance":  func(a domain.ScoredArticle) float64 { return a.RelevanceScore },
		"importance": func(a domain.ScoredArticle) float64 { return a.ImportanceScore },
		"total":      func(a domain.ScoredArticle) float64 { return a.TotalScore },
	}

	stats := make(map[string]scoreStats, len(extract))
	for name, get := range extract {
		entry := scoreStats{Min: get(articles[0]), Max: get(articles[0])}
		var sum float64
		for _, article := range articles {
			v := get(article)
			sum += v
			if v < entry.Min {
				entry.Min = v
			}
			if v > entry.Max {
				entry.Max = v
			}
		}
		entry.Avg = sum / float64(len(articles))
		stats[name] = entry
	}
	return stats
}

func (w *Writer) debug(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}
