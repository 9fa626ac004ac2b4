package dedupe

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"NewsCurator/internal/config"
	"NewsCurator/internal/domain"
	"NewsCurator/internal/ports"
)

// Duplicate is an article flagged equivalent to a surviving one.
type Duplicate struct {
	Article domain.ScoredArticle
	// KeptID is the curation ID of the surviving group member. Empty for
	// cross-run duplicates whose original lives only in the seen store.
	KeptID string
	// FirstSeen is set for cross-run duplicates: when the matching
	// fingerprint first entered the store.
	FirstSeen time.Time
}

// Result partitions one run's articles into survivors and duplicates.
// NewFingerprints lists every distinct fingerprint seen this run that the
// store does not know yet; the caller records them once the curation result
// is durably written.
type Result struct {
	Kept            []domain.ScoredArticle
	Duplicates      []Duplicate
	NewFingerprints []string
}

// Deduplicator groups near-duplicate articles and keeps the best of each
// group: highest total score, ties broken by earliest scrape timestamp.
type Deduplicator struct {
	cfg    config.DedupeConfig
	logger *slog.Logger
}

// New constructs a Deduplicator with the two similarity bars.
func New(cfg config.DedupeConfig, logger *slog.Logger) *Deduplicator {
	return &Deduplicator{cfg: cfg, logger: logger}
}

// Run executes the three dedup passes over one batch:
//
//  1. exact fingerprint buckets, best member survives;
//  2. cross-cache pass against fingerprints recorded by earlier runs;
//  3. pairwise similarity over the survivors, duplicate pairs merged
//     transitively, best member of each group survives.
//
// The pass order matters: exact matches are free, the cache lookup is one
// batched query, and only the reduced survivor set pays the O(n²) similarity
// comparison. Daily volumes are bounded by the upstream scrape limits, so
// the quadratic pass stays in the hundreds of comparisons.
func (d *Deduplicator) Run(ctx context.Context, articles []domain.ScoredArticle, seen ports.SeenStore) (Result, error) {
	var result Result

	survivors, exactDups := d.exactPass(articles)
	result.Duplicates = append(result.Duplicates, exactDups...)

	survivors, cacheDups, newFingerprints, err := d.cachePass(ctx, survivors, seen)
	if err != nil {
		return Result{}, err
	}
	result.Duplicates = append(result.Duplicates, cacheDups...)
	result.NewFingerprints = newFingerprints

	kept, similarityDups := d.similarityPass(survivors)
	result.Kept = kept
	result.Duplicates = append(result.Duplicates, similarityDups...)
	resolveKept(result.Kept, result.Duplicates)

	d.debug("dedup complete",
		"input", len(articles),
		"kept", len(result.Kept),
		"duplicates", len(result.Duplicates))

	return result, nil
}

// exactPass buckets articles by fingerprint and keeps the best of each bucket.
func (d *Deduplicator) exactPass(articles []domain.ScoredArticle) ([]domain.ScoredArticle, []Duplicate) {
	buckets := make(map[string][]int, len(articles))
	order := make([]string, 0, len(articles))
	for i, article := range articles {
		if _, ok := buckets[article.Fingerprint]; !ok {
			order = append(order, article.Fingerprint)
		}
		buckets[article.Fingerprint] = append(buckets[article.Fingerprint], i)
	}

	var survivors []domain.ScoredArticle
	var duplicates []Duplicate
	for _, fingerprint := range order {
		indices := buckets[fingerprint]
		best := indices[0]
		for _, idx := range indices[1:] {
			if betterSurvivor(articles[idx], articles[best]) {
				best = idx
			}
		}
		survivors = append(survivors, articles[best])
		for _, idx := range indices {
			if idx == best {
				continue
			}
			duplicates = append(duplicates, Duplicate{
				Article: articles[idx],
				KeptID:  articles[best].CurationID,
			})
		}
	}
	return survivors, duplicates
}

// resolveKept rewrites duplicate references so that every non-empty KeptID
// points at a member of the final kept set. An exact-pass survivor can itself
// fall in a later pass: the cache pass may flag it, or it may lose its
// similarity group. Its bucket members then follow the reference chain to the
// ultimate survivor, or, when the chain ends at a cross-run duplicate, inherit
// the cached first-seen timestamp and an empty KeptID.
func resolveKept(kept []domain.ScoredArticle, duplicates []Duplicate) {
	keptIDs := make(map[string]struct{}, len(kept))
	for _, article := range kept {
		keptIDs[article.CurationID] = struct{}{}
	}
	byID := make(map[string]int, len(duplicates))
	for i, dup := range duplicates {
		byID[dup.Article.CurationID] = i
	}

	for i := range duplicates {
		for duplicates[i].KeptID != "" {
			if _, ok := keptIDs[duplicates[i].KeptID]; ok {
				break
			}
			next, ok := byID[duplicates[i].KeptID]
			if !ok {
				break
			}
			duplicates[i].KeptID = duplicates[next].KeptID
			if duplicates[i].KeptID == "" {
				duplicates[i].FirstSeen = duplicates[next].FirstSeen
			}
		}
	}
}

// cachePass flags articles whose fingerprint an earlier run already recorded.
// The duplicate group spans runs: the original article is absent from this
// batch, so only the first-seen timestamp identifies it.
func (d *Deduplicator) cachePass(ctx context.Context, articles []domain.ScoredArticle, seen ports.SeenStore) ([]domain.ScoredArticle, []Duplicate, []string, error) {
	if len(articles) == 0 {
		return nil, nil, nil, nil
	}

	fingerprints := make([]string, 0, len(articles))
	for _, article := range articles {
		fingerprints = append(fingerprints, article.Fingerprint)
	}

	known, err := seen.SeenBatch(ctx, fingerprints)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query seen store: %w", err)
	}

	var survivors []domain.ScoredArticle
	var duplicates []Duplicate
	var fresh []string
	for _, article := range articles {
		if firstSeen, ok := known[article.Fingerprint]; ok {
			duplicates = append(duplicates, Duplicate{
				Article:   article,
				FirstSeen: firstSeen,
			})
			continue
		}
		survivors = append(survivors, article)
		fresh = append(fresh, article.Fingerprint)
	}
	return survivors, duplicates, fresh, nil
}

// similarityPass compares every surviving pair on two bars: title-only
// similarity (lower bar, titles are short) and combined title+summary
// similarity (higher bar, needs more overlap). Either bar met makes the
// pair duplicates; pairs merge transitively through union-find.
func (d *Deduplicator) similarityPass(articles []domain.ScoredArticle) ([]domain.ScoredArticle, []Duplicate) {
	if len(articles) < 2 {
		return articles, nil
	}

	titleVectors := make([]*textVector, len(articles))
	combinedVectors := make([]*textVector, len(articles))
	for i, article := range articles {
		titleVectors[i] = newTextVector(article.Title)
		combinedVectors[i] = newTextVector(article.Title + " " + article.Summary)
	}

	groups := newUnionFind(len(articles))
	for i := 0; i < len(articles); i++ {
		for j := i + 1; j < len(articles); j++ {
			titleSim := cosine(titleVectors[i], titleVectors[j])
			combinedSim := cosine(combinedVectors[i], combinedVectors[j])
			if titleSim >= d.cfg.TitleSimilarityThreshold ||
				combinedSim >= d.cfg.CombinedSimilarityThreshold {
				groups.union(i, j)
				d.debug("similar pair",
					"left", articles[i].Title,
					"right", articles[j].Title,
					"title_similarity", titleSim,
					"combined_similarity", combinedSim)
			}
		}
	}

	members := make(map[int][]int, len(articles))
	roots := make([]int, 0, len(articles))
	for i := range articles {
		root := groups.find(i)
		if _, ok := members[root]; !ok {
			roots = append(roots, root)
		}
		members[root] = append(members[root], i)
	}
	sort.Ints(roots)

	var kept []domain.ScoredArticle
	var duplicates []Duplicate
	for _, root := range roots {
		indices := members[root]
		best := indices[0]
		for _, idx := range indices[1:] {
			if betterSurvivor(articles[idx], articles[best]) {
				best = idx
			}
		}
		kept = append(kept, articles[best])
		for _, idx := range indices {
			if idx == best {
				continue
			}
			duplicates = append(duplicates, Duplicate{
				Article: articles[idx],
				KeptID:  articles[best].CurationID,
			})
		}
	}
	return kept, duplicates
}

// betterSurvivor reports whether candidate should replace current as the kept
// member: higher total score wins, ties go to the earlier scrape timestamp
// for stability across runs.
func betterSurvivor(candidate, current domain.ScoredArticle) bool {
	if candidate.TotalScore != current.TotalScore {
		return candidate.TotalScore > current.TotalScore
	}
	return candidate.ScrapedAt.Before(current.ScrapedAt)
}

func (d *Deduplicator) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
