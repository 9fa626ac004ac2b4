package dedupe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"NewsCurator/internal/config"
	"NewsCurator/internal/domain"
	"NewsCurator/internal/normalize"
)

// memSeen is an in-memory SeenStore substitute for testing.
type memSeen struct {
	entries map[string]time.Time
}

func newMemSeen() *memSeen {
	return &memSeen{entries: map[string]time.Time{}}
}

func (m *memSeen) Seen(_ context.Context, fingerprint string) (time.Time, bool, error) {
	ts, ok := m.entries[fingerprint]
	return ts, ok, nil
}

func (m *memSeen) SeenBatch(_ context.Context, fingerprints []string) (map[string]time.Time, error) {
	known := map[string]time.Time{}
	for _, fingerprint := range fingerprints {
		if ts, ok := m.entries[fingerprint]; ok {
			known[fingerprint] = ts
		}
	}
	return known, nil
}

func (m *memSeen) Record(_ context.Context, fingerprints []string, seenAt time.Time) error {
	for _, fingerprint := range fingerprints {
		if _, ok := m.entries[fingerprint]; !ok {
			m.entries[fingerprint] = seenAt
		}
	}
	return nil
}

func (m *memSeen) EvictExpired(_ context.Context, now time.Time, retention time.Duration) (int64, error) {
	var removed int64
	for fingerprint, ts := range m.entries {
		if now.Sub(ts) > retention {
			delete(m.entries, fingerprint)
			removed++
		}
	}
	return removed, nil
}

func testDeduplicator() *Deduplicator {
	return New(config.DedupeConfig{
		TitleSimilarityThreshold:    0.75,
		CombinedSimilarityThreshold: 0.85,
	}, nil)
}

func scoredArticle(id, title, summary string, total float64, scrapedAt time.Time) domain.ScoredArticle {
	return domain.ScoredArticle{
		Article: domain.Article{
			Title:       title,
			Summary:     summary,
			ScrapedAt:   scrapedAt,
			Fingerprint: normalize.Fingerprint(title, summary),
		},
		CurationID: id,
		TotalScore: total,
	}
}

func TestExactFingerprintKeepsBestScore(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)
	articles := []domain.ScoredArticle{
		scoredArticle("a", "Gouvernement annonce réforme", "Les détails arrivent.", 12, base),
		scoredArticle("b", "Gouvernement annonce réforme", "Les détails arrivent.", 18, base.Add(time.Hour)),
	}

	result, err := testDeduplicator().Run(context.Background(), articles, newMemSeen())
	require.NoError(t, err)

	require.Len(t, result.Kept, 1)
	require.Equal(t, "b", result.Kept[0].CurationID)
	require.Len(t, result.Duplicates, 1)
	require.Equal(t, "a", result.Duplicates[0].Article.CurationID)
	require.Equal(t, "b", result.Duplicates[0].KeptID)
}

func TestExactFingerprintTieBreaksOnEarlierScrape(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)
	articles := []domain.ScoredArticle{
		scoredArticle("late", "Gouvernement annonce réforme", "Les détails arrivent.", 15, base.Add(time.Hour)),
		scoredArticle("early", "Gouvernement annonce réforme", "Les détails arrivent.", 15, base),
	}

	result, err := testDeduplicator().Run(context.Background(), articles, newMemSeen())
	require.NoError(t, err)

	require.Len(t, result.Kept, 1)
	require.Equal(t, "early", result.Kept[0].CurationID)
}

func TestCrossCachePassFlagsKnownFingerprints(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)
	article := scoredArticle("a", "Grève à la SNCF annoncée", "Trafic perturbé demain matin.", 16, base)

	seen := newMemSeen()
	firstSeen := base.Add(-6 * time.Hour)
	seen.entries[article.Fingerprint] = firstSeen

	result, err := testDeduplicator().Run(context.Background(), []domain.ScoredArticle{article}, seen)
	require.NoError(t, err)

	require.Empty(t, result.Kept)
	require.Len(t, result.Duplicates, 1)
	require.Equal(t, firstSeen, result.Duplicates[0].FirstSeen)
	require.Empty(t, result.Duplicates[0].KeptID)
	require.Empty(t, result.NewFingerprints, "cached fingerprints are not re-recorded")
}

func TestSimilarityPassNearIdenticalSummaries(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)
	articles := []domain.ScoredArticle{
		scoredArticle("best", "Gouvernement annonce réforme",
			"Le gouvernement annonce une réforme majeure des retraites pour cette année.", 20, base),
		scoredArticle("other", "Gouvernement annonce réforme",
			"Le gouvernement annonce une réforme majeure des retraites pour l'année.", 14, base),
	}

	result, err := testDeduplicator().Run(context.Background(), articles, newMemSeen())
	require.NoError(t, err)

	require.Len(t, result.Kept, 1)
	require.Equal(t, "best", result.Kept[0].CurationID)
	require.Len(t, result.Duplicates, 1)
	require.Equal(t, "other", result.Duplicates[0].Article.CurationID)
	require.Equal(t, "best", result.Duplicates[0].KeptID)
}

func TestSimilarityGroupsMergeTransitively(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)
	// A~B and B~C clear the title bar, A~C alone does not; all three must
	// land in one group with a single survivor.
	articles := []domain.ScoredArticle{
		scoredArticle("a", "budget logement transports écoles", "", 10, base),
		scoredArticle("b", "budget logement transports hôpitaux", "", 11, base),
		scoredArticle("c", "logement transports hôpitaux justice", "", 12, base),
	}

	result, err := testDeduplicator().Run(context.Background(), articles, newMemSeen())
	require.NoError(t, err)

	require.Len(t, result.Kept, 1)
	require.Equal(t, "c", result.Kept[0].CurationID)
	require.Len(t, result.Duplicates, 2)
	for _, dup := range result.Duplicates {
		require.Equal(t, "c", dup.KeptID)
	}
}

func TestDuplicateReferencesFollowRejectedSurvivor(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)
	// a1 wins its exact-fingerprint bucket against a2, then loses the
	// similarity group to b. a2 must end up referencing b, not a1.
	articles := []domain.ScoredArticle{
		scoredArticle("a1", "Gouvernement annonce réforme",
			"Le gouvernement annonce une réforme majeure des retraites.", 12, base),
		scoredArticle("a2", "Gouvernement annonce réforme",
			"Le gouvernement annonce une réforme majeure des retraites.", 10, base),
		scoredArticle("b", "Gouvernement annonce réforme",
			"Réforme des retraites présentée en conseil des ministres.", 20, base),
	}

	result, err := testDeduplicator().Run(context.Background(), articles, newMemSeen())
	require.NoError(t, err)

	require.Len(t, result.Kept, 1)
	require.Equal(t, "b", result.Kept[0].CurationID)
	require.Len(t, result.Duplicates, 2)
	for _, dup := range result.Duplicates {
		require.Equal(t, "b", dup.KeptID,
			"duplicate %s must reference the surviving article", dup.Article.CurationID)
	}
}

func TestDuplicateReferencesFollowCachedSurvivor(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)
	articles := []domain.ScoredArticle{
		scoredArticle("a1", "Grève à la SNCF annoncée", "Trafic perturbé demain matin.", 16, base),
		scoredArticle("a2", "Grève à la SNCF annoncée", "Trafic perturbé demain matin.", 12, base),
	}

	// The bucket survivor a1 is itself a cross-run duplicate; a2 inherits
	// the cached first-seen timestamp instead of pointing at a1.
	seen := newMemSeen()
	firstSeen := base.Add(-6 * time.Hour)
	seen.entries[articles[0].Fingerprint] = firstSeen

	result, err := testDeduplicator().Run(context.Background(), articles, seen)
	require.NoError(t, err)

	require.Empty(t, result.Kept)
	require.Len(t, result.Duplicates, 2)
	for _, dup := range result.Duplicates {
		require.Empty(t, dup.KeptID)
		require.Equal(t, firstSeen, dup.FirstSeen)
	}
}

func TestDedupIdempotent(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)
	articles := []domain.ScoredArticle{
		scoredArticle("a", "Grève à la SNCF annoncée", "Trafic perturbé demain matin.", 16, base),
		scoredArticle("b", "Nouveau musée à Marseille", "Ouverture prévue au printemps prochain.", 14, base),
		scoredArticle("a2", "Grève à la SNCF annoncée", "Trafic perturbé demain matin.", 12, base),
	}

	dedup := testDeduplicator()
	first, err := dedup.Run(context.Background(), articles, newMemSeen())
	require.NoError(t, err)
	require.Len(t, first.Kept, 2)

	second, err := dedup.Run(context.Background(), first.Kept, newMemSeen())
	require.NoError(t, err)
	require.Len(t, second.Kept, 2)
	require.Empty(t, second.Duplicates)
}

func TestEmptyTitlesDoNotGroup(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)
	articles := []domain.ScoredArticle{
		scoredArticle("a", "", "Un résumé sans titre sur la politique.", 10, base),
		scoredArticle("b", "", "Une autre dépêche complètement différente ici.", 11, base),
	}

	result, err := testDeduplicator().Run(context.Background(), articles, newMemSeen())
	require.NoError(t, err)
	require.Len(t, result.Kept, 2)
	require.Empty(t, result.Duplicates)
}
