package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "NEWS_CURATOR_CONFIG"
	inputPathEnv  = "NEWS_CURATOR_INPUT"
	outputDirEnv  = "NEWS_CURATOR_OUTPUT_DIR"
	cachePathEnv  = "NEWS_CURATOR_CACHE"
	logLevelEnv   = "NEWS_CURATOR_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Cache    CacheConfig    `yaml:"cache"`
	Curation CurationConfig `yaml:"curation"`
	Dedupe   DedupeConfig   `yaml:"dedupe"`
	Scoring  ScoringConfig  `yaml:"scoring"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// InputConfig locates the scraper collaborator's raw article dump.
type InputConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig locates the directory receiving curation artifacts.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// CacheConfig describes the seen-fingerprint store and its run lock.
type CacheConfig struct {
	Path               string `yaml:"path"`
	RetentionHours     int    `yaml:"retentionHours"`
	LockPath           string `yaml:"lockPath"`
	LockTimeoutSeconds int    `yaml:"lockTimeoutSeconds"`
}

// Retention resolves the fingerprint retention window.
func (c CacheConfig) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

// LockTimeout resolves the run lock acquisition timeout.
func (c CacheConfig) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutSeconds) * time.Second
}

// CurationConfig defines threshold, freshness window, and volume caps.
type CurationConfig struct {
	// ThresholdTotal is the minimum total score (0-30 scale) for curation.
	ThresholdTotal float64 `yaml:"thresholdTotal"`
	WindowHours    int     `yaml:"windowHours"`
	MaxPerSource   int     `yaml:"maxPerSource"`
	MaxTotal       int     `yaml:"maxTotal"`
}

// Window resolves the freshness window duration.
func (c CurationConfig) Window() time.Duration {
	return time.Duration(c.WindowHours) * time.Hour
}

// DedupeConfig carries the two similarity bars of the duplicate detector.
// Titles are short and rephrasing is common, so the title bar sits lower
// than the combined title+summary bar.
type DedupeConfig struct {
	TitleSimilarityThreshold    float64 `yaml:"titleSimilarityThreshold"`
	CombinedSimilarityThreshold float64 `yaml:"combinedSimilarityThreshold"`
}

// ScoringConfig is the immutable calibration handed to the scorer: keyword
// tiers for relevance, lexical markers for importance, quality indicators,
// and the numeric weights combining them.
type ScoringConfig struct {
	HighRelevanceKeywords   []string            `yaml:"highRelevanceKeywords"`
	MediumRelevanceKeywords []string            `yaml:"mediumRelevanceKeywords"`
	LowRelevanceKeywords    []string            `yaml:"lowRelevanceKeywords"`
	RelevantCategories      []string            `yaml:"relevantCategories"`
	QualityIndicators       map[string][]string `yaml:"qualityIndicators"`
	ClickbaitIndicators     []string            `yaml:"clickbaitIndicators"`
	BreakingIndicators      []string            `yaml:"breakingIndicators"`
	PolicyKeywords          []string            `yaml:"policyKeywords"`
	EconomicKeywords        []string            `yaml:"economicKeywords"`
	SocialKeywords          []string            `yaml:"socialKeywords"`
	ReputableSources        []string            `yaml:"reputableSources"`
	InternationalIndicators []string            `yaml:"internationalIndicators"`
	FranceContext           []string            `yaml:"franceContext"`
	LocalIndicators         []string            `yaml:"localIndicators"`
	MajorCities             []string            `yaml:"majorCities"`
	Weights                 ScoringWeights      `yaml:"weights"`
}

// ScoringWeights groups the additive terms of the three sub-scores.
type ScoringWeights struct {
	QualityBase         float64 `yaml:"qualityBase"`
	RelevanceBase       float64 `yaml:"relevanceBase"`
	ImportanceBase      float64 `yaml:"importanceBase"`
	HighKeywordWeight   float64 `yaml:"highKeywordWeight"`
	HighKeywordCap      float64 `yaml:"highKeywordCap"`
	MediumKeywordWeight float64 `yaml:"mediumKeywordWeight"`
	MediumKeywordCap    float64 `yaml:"mediumKeywordCap"`
	LowKeywordPenalty   float64 `yaml:"lowKeywordPenalty"`
	LowKeywordCap       float64 `yaml:"lowKeywordCap"`
	BreakingBonus       float64 `yaml:"breakingBonus"`
	PolicyBonus         float64 `yaml:"policyBonus"`
	EconomicBonus       float64 `yaml:"economicBonus"`
	SocialBonus         float64 `yaml:"socialBonus"`
	ReputationBonus     float64 `yaml:"reputationBonus"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

// Validate checks that thresholds, windows, and caps are inside sane ranges.
func (c Config) Validate() error {
	if c.Curation.ThresholdTotal < 0 || c.Curation.ThresholdTotal > 30 {
		return fmt.Errorf("curation threshold %.1f outside 0-30 scale", c.Curation.ThresholdTotal)
	}
	if c.Curation.WindowHours <= 0 {
		return fmt.Errorf("window hours must be positive, got %d", c.Curation.WindowHours)
	}
	if c.Curation.MaxPerSource <= 0 || c.Curation.MaxTotal <= 0 {
		return fmt.Errorf("volume caps must be positive, got perSource=%d total=%d",
			c.Curation.MaxPerSource, c.Curation.MaxTotal)
	}
	if t := c.Dedupe.TitleSimilarityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("title similarity threshold %.2f outside (0,1]", t)
	}
	if t := c.Dedupe.CombinedSimilarityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("combined similarity threshold %.2f outside (0,1]", t)
	}
	if c.Cache.RetentionHours <= 0 {
		return fmt.Errorf("cache retention hours must be positive, got %d", c.Cache.RetentionHours)
	}
	if c.Cache.LockTimeoutSeconds <= 0 {
		return fmt.Errorf("lock timeout seconds must be positive, got %d", c.Cache.LockTimeoutSeconds)
	}
	if c.Input.Path == "" {
		return fmt.Errorf("input path is required")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output dir is required")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(inputPathEnv); v != "" {
		c.Input.Path = v
	}
	if v := os.Getenv(outputDirEnv); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv(cachePathEnv); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Input.Path != "" {
		base.Input.Path = override.Input.Path
	}
	if override.Output.Dir != "" {
		base.Output.Dir = override.Output.Dir
	}

	if override.Cache.Path != "" {
		base.Cache.Path = override.Cache.Path
	}
	if override.Cache.RetentionHours > 0 {
		base.Cache.RetentionHours = override.Cache.RetentionHours
	}
	if override.Cache.LockPath != "" {
		base.Cache.LockPath = override.Cache.LockPath
	}
	if override.Cache.LockTimeoutSeconds > 0 {
		base.Cache.LockTimeoutSeconds = override.Cache.LockTimeoutSeconds
	}

	if override.Curation.ThresholdTotal > 0 {
		base.Curation.ThresholdTotal = override.Curation.ThresholdTotal
	}
	if override.Curation.WindowHours > 0 {
		base.Curation.WindowHours = override.Curation.WindowHours
	}
	if override.Curation.MaxPerSource > 0 {
		base.Curation.MaxPerSource = override.Curation.MaxPerSource
	}
	if override.Curation.MaxTotal > 0 {
		base.Curation.MaxTotal = override.Curation.MaxTotal
	}

	if override.Dedupe.TitleSimilarityThreshold > 0 {
		base.Dedupe.TitleSimilarityThreshold = override.Dedupe.TitleSimilarityThreshold
	}
	if override.Dedupe.CombinedSimilarityThreshold > 0 {
		base.Dedupe.CombinedSimilarityThreshold = override.Dedupe.CombinedSimilarityThreshold
	}

	base.Scoring = mergeScoring(base.Scoring, override.Scoring)

	return base
}

func mergeScoring(base, override ScoringConfig) ScoringConfig {
	if len(override.HighRelevanceKeywords) > 0 {
		base.HighRelevanceKeywords = override.HighRelevanceKeywords
	}
	if len(override.MediumRelevanceKeywords) > 0 {
		base.MediumRelevanceKeywords = override.MediumRelevanceKeywords
	}
	if len(override.LowRelevanceKeywords) > 0 {
		base.LowRelevanceKeywords = override.LowRelevanceKeywords
	}
	if len(override.RelevantCategories) > 0 {
		base.RelevantCategories = override.RelevantCategories
	}
	if len(override.QualityIndicators) > 0 {
		base.QualityIndicators = override.QualityIndicators
	}
	if len(override.ClickbaitIndicators) > 0 {
		base.ClickbaitIndicators = override.ClickbaitIndicators
	}
	if len(override.BreakingIndicators) > 0 {
		base.BreakingIndicators = override.BreakingIndicators
	}
	if len(override.PolicyKeywords) > 0 {
		base.PolicyKeywords = override.PolicyKeywords
	}
	if len(override.EconomicKeywords) > 0 {
		base.EconomicKeywords = override.EconomicKeywords
	}
	if len(override.SocialKeywords) > 0 {
		base.SocialKeywords = override.SocialKeywords
	}
	if len(override.ReputableSources) > 0 {
		base.ReputableSources = override.ReputableSources
	}
	if len(override.InternationalIndicators) > 0 {
		base.InternationalIndicators = override.InternationalIndicators
	}
	if len(override.FranceContext) > 0 {
		base.FranceContext = override.FranceContext
	}
	if len(override.LocalIndicators) > 0 {
		base.LocalIndicators = override.LocalIndicators
	}
	if len(override.MajorCities) > 0 {
		base.MajorCities = override.MajorCities
	}
	if override.Weights != (ScoringWeights{}) {
		base.Weights = override.Weights
	}
	return base
}
