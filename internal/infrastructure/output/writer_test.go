package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"NewsCurator/internal/domain"
)

func sampleResult() domain.CurationResult {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	return domain.CurationResult{
		RunID:       "run-42",
		GeneratedAt: now,
		Threshold:   18.0,
		Curated: []domain.ScoredArticle{
			{
				Article:         domain.Article{Title: "Réforme adoptée", SourceName: "Le Monde", ScrapedAt: now},
				CurationID:      "a",
				QualityScore:    7,
				RelevanceScore:  8,
				ImportanceScore: 6,
				TotalScore:      21,
			},
			{
				Article:         domain.Article{Title: "Grève reconduite", SourceName: "RFI", ScrapedAt: now},
				CurationID:      "b",
				QualityScore:    6,
				RelevanceScore:  7,
				ImportanceScore: 6,
				TotalScore:      19,
			},
		},
		Rejected: []domain.Rejection{
			{
				ScoredArticle: domain.ScoredArticle{CurationID: "c", TotalScore: 3},
				Reason:        domain.ReasonBelowThreshold,
			},
			{
				ScoredArticle: domain.ScoredArticle{CurationID: "d", TotalScore: 20},
				Reason:        domain.ReasonDuplicate,
				DuplicateOf:   "a",
			},
		},
	}
}

func TestWriteArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writer := New(dir, nil)
	require.NoError(t, writer.Write(context.Background(), sampleResult()))

	raw, err := os.ReadFile(filepath.Join(dir, "curated_articles.json"))
	require.NoError(t, err)

	var curated curatedArtifact
	require.NoError(t, json.Unmarshal(raw, &curated))
	require.Equal(t, "run-42", curated.Metadata.RunID)
	require.Equal(t, 2, curated.Metadata.Total)
	require.Len(t, curated.Articles, 2)

	stats := curated.Metadata.Statistics
	require.Equal(t, 19.0, stats["total"].Min)
	require.Equal(t, 21.0, stats["total"].Max)
	require.InDelta(t, 20.0, stats["total"].Avg, 1e-9)

	raw, err = os.ReadFile(filepath.Join(dir, "rejected_articles.json"))
	require.NoError(t, err)

	var rejected rejectedArtifact
	require.NoError(t, json.Unmarshal(raw, &rejected))
	require.Equal(t, 2, rejected.Metadata.Total)
	require.Equal(t, 1, rejected.Metadata.Summary[domain.ReasonDuplicate])
	require.Equal(t, 1, rejected.Metadata.Summary[domain.ReasonBelowThreshold])
	require.Equal(t, "a", rejected.Articles[1].DuplicateOf)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, New(dir, nil).Write(context.Background(), sampleResult()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		require.NotContains(t, entry.Name(), ".tmp")
	}
}

func TestWriteEmptyResult(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result := domain.CurationResult{RunID: "run-0", GeneratedAt: time.Now().UTC()}
	require.NoError(t, New(dir, nil).Write(context.Background(), result))

	raw, err := os.ReadFile(filepath.Join(dir, "curated_articles.json"))
	require.NoError(t, err)

	var curated curatedArtifact
	require.NoError(t, json.Unmarshal(raw, &curated))
	require.Zero(t, curated.Metadata.Total)
	require.Nil(t, curated.Metadata.Statistics)
}
