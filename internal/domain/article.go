package domain

import "time"

// RawEntry is the heterogeneous record handed over by the scraping collaborator.
// Every field except title/summary may be absent in real feeds.
type RawEntry struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Content    string `json:"content,omitempty"`
	Link       string `json:"link"`
	Author     string `json:"author,omitempty"`
	SourceName string `json:"source_name"`
	Category   string `json:"category,omitempty"`
	Published  string `json:"published,omitempty"`
	ScrapedAt  string `json:"scraped_at,omitempty"`
}

// Article is the canonical normalized record entering the engine.
type Article struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content,omitempty"`
	URL         string     `json:"link"`
	Author      string     `json:"author,omitempty"`
	SourceName  string     `json:"source_name"`
	Category    string     `json:"category,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"` // nil when the feed omitted a parseable date
	ScrapedAt   time.Time  `json:"scraped_at"`
	WordCount   int        `json:"word_count"`
	Fingerprint string     `json:"fingerprint"`
}

// EffectiveTime returns the publication timestamp when known, otherwise the
// scrape timestamp. Undated articles are at most one scrape cycle old, so the
// scrape time is the closest honest stand-in for age decisions.
func (a Article) EffectiveTime() time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.ScrapedAt
}

// ScoredArticle attaches the three curation sub-scores to an Article.
// TotalScore is always the sum of the three, recomputed at scoring time.
type ScoredArticle struct {
	Article
	CurationID      string    `json:"curation_id"`
	QualityScore    float64   `json:"quality_score"`
	RelevanceScore  float64   `json:"relevance_score"`
	ImportanceScore float64   `json:"importance_score"`
	TotalScore      float64   `json:"total_score"`
	CuratedAt       time.Time `json:"curated_at"`
}

// RejectionReason enumerates why an article was excluded from the curated set.
type RejectionReason string

const (
	ReasonBelowThreshold RejectionReason = "below_threshold"
	ReasonDuplicate      RejectionReason = "duplicate"
	ReasonVolumeCap      RejectionReason = "volume_cap_exceeded"
	ReasonMalformedInput RejectionReason = "malformed_input"
	ReasonOutsideWindow  RejectionReason = "outside_window"
)

// Rejection is a rejected article together with the reason it was excluded.
type Rejection struct {
	ScoredArticle
	Reason RejectionReason `json:"rejection_reason"`
	// DuplicateOf carries the curation ID of the surviving group member when
	// Reason is ReasonDuplicate. Empty for cross-run duplicates, where the
	// original was processed by an earlier batch.
	DuplicateOf string `json:"duplicate_of,omitempty"`
}

// CurationResult is the final partition of one batch run.
// Curated and Rejected are disjoint and together cover every entry that
// passed (or failed) normalization.
type CurationResult struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Threshold   float64         `json:"threshold"`
	Curated     []ScoredArticle `json:"curated"`
	Rejected    []Rejection     `json:"rejected"`
}

// RejectionSummary groups rejected counts by reason.
func (r CurationResult) RejectionSummary() map[RejectionReason]int {
	summary := make(map[RejectionReason]int)
	for _, rej := range r.Rejected {
		summary[rej.Reason]++
	}
	return summary
}
