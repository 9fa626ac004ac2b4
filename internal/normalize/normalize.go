package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsCurator/internal/domain"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
)

// publishedLayouts covers the date formats observed across French feeds.
var publishedLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// Normalize converts a raw feed entry into a canonical Article.
//
// Missing publication dates stay nil rather than defaulting to now; callers
// decide how undated articles age. An entry whose title and summary are both
// empty after markup stripping is rejected with domain.ErrMalformedInput and
// never enters scoring. Pure function: no I/O, no clock reads beyond the
// provided scrape fallback.
func Normalize(raw domain.RawEntry, batchTime time.Time) (domain.Article, error) {
	title := CleanText(raw.Title)
	summary := CleanText(raw.Summary)
	content := CleanText(raw.Content)

	if title == "" && summary == "" {
		return domain.Article{}, fmt.Errorf("entry %q: %w", raw.Link, domain.ErrMalformedInput)
	}

	scrapedAt := batchTime
	if ts := parseTimestamp(raw.ScrapedAt); ts != nil {
		scrapedAt = *ts
	}

	return domain.Article{
		Title:       title,
		Summary:     summary,
		Content:     content,
		URL:         strings.TrimSpace(raw.Link),
		Author:      strings.TrimSpace(raw.Author),
		SourceName:  strings.TrimSpace(raw.SourceName),
		Category:    strings.TrimSpace(raw.Category),
		PublishedAt: parseTimestamp(raw.Published),
		ScrapedAt:   scrapedAt.UTC(),
		WordCount:   wordCount(title, summary, content),
		Fingerprint: Fingerprint(title, summary),
	}, nil
}

// CleanText strips embedded HTML markup and collapses whitespace.
// Feeds routinely wrap summaries in markup; text content is all we keep.
func CleanText(input string) string {
	text := input
	if strings.ContainsAny(input, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(input)); err == nil {
			text = doc.Text()
		}
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// Fingerprint computes the deterministic content hash of an article:
// sha256 over the lower-cased, punctuation-stripped, whitespace-collapsed
// title+summary. Identical fingerprints mean exact duplicates.
func Fingerprint(title, summary string) string {
	canonical := CanonicalText(title + " " + summary)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// CanonicalText lower-cases, strips punctuation, and collapses whitespace.
func CanonicalText(input string) string {
	lowered := strings.ToLower(input)
	lowered = punctuation.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(lowered, " "))
}

func parseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range publishedLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			utc := ts.UTC()
			return &utc
		}
	}
	return nil
}

func wordCount(parts ...string) int {
	count := 0
	for _, part := range parts {
		count += len(strings.Fields(part))
	}
	return count
}
