package curate

import (
	"log/slog"
	"sort"
	"time"

	"NewsCurator/internal/config"
	"NewsCurator/internal/domain"
)

// Curator applies the freshness window, the quality threshold, and the
// volume caps to deduplicated articles, producing the final partition.
type Curator struct {
	cfg    config.CurationConfig
	logger *slog.Logger
}

// New constructs a Curator.
func New(cfg config.CurationConfig, logger *slog.Logger) *Curator {
	return &Curator{cfg: cfg, logger: logger}
}

// Curate partitions the surviving articles. preRejected carries rejections
// accumulated upstream (malformed entries, duplicates); they pass through so
// curated and rejected together cover the entire input.
//
// Rules apply in order: window filter, threshold partition, per-source cap,
// global cap. Caps run after the threshold so they only affect articles that
// would otherwise qualify. Articles with no publication timestamp age by
// their scrape timestamp; the scraper only hands over entries it just
// fetched, so undated articles stay includable rather than being dropped.
func (c *Curator) Curate(kept []domain.ScoredArticle, preRejected []domain.Rejection, now time.Time) domain.CurationResult {
	result := domain.CurationResult{
		Threshold: c.cfg.ThresholdTotal,
		Rejected:  preRejected,
	}

	cutoff := now.Add(-c.cfg.Window())

	var qualifying []domain.ScoredArticle
	for _, article := range kept {
		if article.EffectiveTime().Before(cutoff) {
			result.Rejected = append(result.Rejected, domain.Rejection{
				ScoredArticle: article,
				Reason:        domain.ReasonOutsideWindow,
			})
			continue
		}
		if article.TotalScore < c.cfg.ThresholdTotal {
			result.Rejected = append(result.Rejected, domain.Rejection{
				ScoredArticle: article,
				Reason:        domain.ReasonBelowThreshold,
			})
			continue
		}
		qualifying = append(qualifying, article)
	}

	curated, overflow := c.applyCaps(qualifying)
	for _, article := range overflow {
		result.Rejected = append(result.Rejected, domain.Rejection{
			ScoredArticle: article,
			Reason:        domain.ReasonVolumeCap,
		})
	}

	sortCurated(curated)
	result.Curated = curated

	c.debug("curation partitioned",
		"curated", len(result.Curated),
		"rejected", len(result.Rejected))

	return result
}

// applyCaps enforces the per-source cap first, then the global cap, keeping
// the best-scoring articles in both steps.
func (c *Curator) applyCaps(articles []domain.ScoredArticle) (curated, overflow []domain.ScoredArticle) {
	perSource := make(map[string][]domain.ScoredArticle)
	sourceOrder := make([]string, 0)
	for _, article := range articles {
		if _, ok := perSource[article.SourceName]; !ok {
			sourceOrder = append(sourceOrder, article.SourceName)
		}
		perSource[article.SourceName] = append(perSource[article.SourceName], article)
	}

	var capped []domain.ScoredArticle
	for _, source := range sourceOrder {
		group := perSource[source]
		sortCurated(group)
		if len(group) > c.cfg.MaxPerSource {
			overflow = append(overflow, group[c.cfg.MaxPerSource:]...)
			group = group[:c.cfg.MaxPerSource]
		}
		capped = append(capped, group...)
	}

	sortCurated(capped)
	if len(capped) > c.cfg.MaxTotal {
		overflow = append(overflow, capped[c.cfg.MaxTotal:]...)
		capped = capped[:c.cfg.MaxTotal]
	}

	return capped, overflow
}

// sortCurated orders articles total score descending, ties broken by
// importance score, then recency.
func sortCurated(articles []domain.ScoredArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].TotalScore != articles[j].TotalScore {
			return articles[i].TotalScore > articles[j].TotalScore
		}
		if articles[i].ImportanceScore != articles[j].ImportanceScore {
			return articles[i].ImportanceScore > articles[j].ImportanceScore
		}
		return articles[i].EffectiveTime().After(articles[j].EffectiveTime())
	})
}

func (c *Curator) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
