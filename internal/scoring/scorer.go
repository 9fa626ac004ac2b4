package scoring

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"NewsCurator/internal/config"
	"NewsCurator/internal/domain"
)

// maxSubScore bounds each sub-score; the total lives on a 0-30 scale.
const maxSubScore = 10.0

// frenchPatterns detect well-formed French prose: articles, common verbs,
// prepositions. Structural, not calibration data, so they stay in code.
var frenchPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(le|la|les|un|une|des)\b`),
	regexp.MustCompile(`\b(est|sont|était|sera)\b`),
	regexp.MustCompile(`\b(avec|dans|pour|sur|par)\b`),
}

// Scorer computes the quality, relevance, and importance sub-scores from an
// immutable calibration. Scoring is a pure function of the article text and
// the configuration: same input, same output, no I/O.
type Scorer struct {
	cfg             config.ScoringConfig
	logger          *slog.Logger
	indicatorGroups []string
}

// New constructs a Scorer around the provided calibration.
func New(cfg config.ScoringConfig, logger *slog.Logger) *Scorer {
	// Fixed iteration order keeps quality scoring deterministic regardless
	// of map ordering.
	groups := make([]string, 0, len(cfg.QualityIndicators))
	for name := range cfg.QualityIndicators {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	return &Scorer{cfg: cfg, logger: logger, indicatorGroups: groups}
}

// Score computes all three sub-scores and the recomputed total.
func (s *Scorer) Score(a domain.Article) domain.ScoredArticle {
	quality := s.Quality(a)
	relevance := s.Relevance(a)
	importance := s.Importance(a)

	return domain.ScoredArticle{
		Article:         a,
		QualityScore:    quality,
		RelevanceScore:  relevance,
		ImportanceScore: importance,
		TotalScore:      quality + relevance + importance,
	}
}

// Quality scores writing quality in [0,10]: content completeness, analytical
// indicators, structure, French prose patterns; penalties for clickbait
// markers and very short text.
func (s *Scorer) Quality(a domain.Article) float64 {
	score := s.cfg.Weights.QualityBase

	title := strings.ToLower(a.Title)
	summary := strings.ToLower(a.Summary)
	content := strings.ToLower(a.Content)
	fullText := title + " " + summary + " " + content

	// Content completeness.
	if len(content) > 200 {
		score += 1.0
	}
	if len(summary) > 50 {
		score += 0.5
	}
	if a.Author != "" {
		score += 0.5
	}

	// Analytical writing indicators, one bonus per hit category.
	for _, group := range s.indicatorGroups {
		if containsAny(fullText, s.cfg.QualityIndicators[group]) {
			score += 0.5
		}
	}

	// Structure: descriptive title, French punctuation, distinct summary.
	if len(strings.Fields(title)) >= 5 {
		score += 0.3
	}
	if strings.ContainsAny(a.Title, ":«»") {
		score += 0.2
	}
	if summary != "" && summary != title {
		score += 0.5
	}

	// French prose patterns.
	patternHits := 0
	for _, pattern := range frenchPatterns {
		if pattern.MatchString(fullText) {
			patternHits++
		}
	}
	score += min(1.0, float64(patternHits)*0.2)

	// Penalties.
	if containsAny(fullText, s.cfg.ClickbaitIndicators) {
		score -= 1.0
	}
	if len(fullText) < 100 {
		score -= 1.0
	}
	if isAllUpper(a.Title) {
		score -= 0.5
	}

	return clamp(score)
}

// Relevance scores audience relevance in [0,10] against the three keyword
// tiers: high-tier hits add the most, medium-tier less, low-tier (topics the
// audience does not need) subtract.
func (s *Scorer) Relevance(a domain.Article) float64 {
	score := s.cfg.Weights.RelevanceBase

	category := strings.ToLower(a.Category)
	fullText := strings.ToLower(a.Title + " " + a.Summary + " " + a.Content + " " + a.Category)

	w := s.cfg.Weights

	highMatches := countMatches(fullText, s.cfg.HighRelevanceKeywords)
	score += min(w.HighKeywordCap, float64(highMatches)*w.HighKeywordWeight)

	mediumMatches := countMatches(fullText, s.cfg.MediumRelevanceKeywords)
	score += min(w.MediumKeywordCap, float64(mediumMatches)*w.MediumKeywordWeight)

	if containsAny(category, s.cfg.RelevantCategories) {
		score += 1.0
	}

	lowMatches := countMatches(fullText, s.cfg.LowRelevanceKeywords)
	score -= min(w.LowKeywordCap, float64(lowMatches)*w.LowKeywordPenalty)

	// International stories that never mention France matter less here.
	if containsAny(fullText, s.cfg.InternationalIndicators) &&
		!containsAny(fullText, s.cfg.FranceContext) {
		score -= 1.0
	}

	return clamp(score)
}

// Importance scores national significance in [0,10]: breaking markers,
// government and policy markers, economic and social impact, and the source
// reputation table. Unknown sources score neutral rather than failing.
func (s *Scorer) Importance(a domain.Article) float64 {
	score := s.cfg.Weights.ImportanceBase

	source := strings.ToLower(a.SourceName)
	fullText := strings.ToLower(a.Title + " " + a.Summary + " " + a.Content)

	w := s.cfg.Weights

	if containsAny(fullText, s.cfg.BreakingIndicators) {
		score += w.BreakingBonus
	}
	if containsAny(fullText, s.cfg.PolicyKeywords) {
		score += w.PolicyBonus
	}
	if containsAny(fullText, s.cfg.EconomicKeywords) {
		score += w.EconomicBonus
	}
	if containsAny(fullText, s.cfg.SocialKeywords) {
		score += w.SocialBonus
	}

	if containsAny(source, s.cfg.ReputableSources) {
		score += w.ReputationBonus
	} else if source != "" {
		s.debug("source not in reputation table, scoring neutral", "source", a.SourceName)
	}

	// Hyper-local stories outside major cities rank lower.
	if containsAny(fullText, s.cfg.LocalIndicators) &&
		!containsAny(fullText, s.cfg.MajorCities) {
		score -= 1.0
	}

	return clamp(score)
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func countMatches(text string, keywords []string) int {
	matches := 0
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, keyword) {
			matches++
		}
	}
	return matches
}

func isAllUpper(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > maxSubScore {
		return maxSubScore
	}
	return score
}

func (s *Scorer) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
