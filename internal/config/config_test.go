package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	if cfg.Curation.ThresholdTotal != 18.0 {
		t.Fatalf("unexpected default threshold: %v", cfg.Curation.ThresholdTotal)
	}
	if cfg.Dedupe.TitleSimilarityThreshold >= cfg.Dedupe.CombinedSimilarityThreshold {
		t.Fatalf("title bar must sit below the combined bar: %v >= %v",
			cfg.Dedupe.TitleSimilarityThreshold, cfg.Dedupe.CombinedSimilarityThreshold)
	}
	if len(cfg.Scoring.HighRelevanceKeywords) == 0 {
		t.Fatal("default scoring calibration must carry keyword tiers")
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curator.yaml")
	raw := []byte(`
curation:
  thresholdTotal: 21.0
  maxPerSource: 5
cache:
  retentionHours: 48
scoring:
  reputableSources:
    - mediapart
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NEWS_CURATOR_CONFIG", path)

	cfg := Load()

	if cfg.Curation.ThresholdTotal != 21.0 {
		t.Fatalf("expected file threshold, got %v", cfg.Curation.ThresholdTotal)
	}
	if cfg.Curation.MaxPerSource != 5 {
		t.Fatalf("expected file per-source cap, got %d", cfg.Curation.MaxPerSource)
	}
	if cfg.Cache.RetentionHours != 48 {
		t.Fatalf("expected file retention, got %d", cfg.Cache.RetentionHours)
	}
	if len(cfg.Scoring.ReputableSources) != 1 || cfg.Scoring.ReputableSources[0] != "mediapart" {
		t.Fatalf("expected file reputable sources, got %v", cfg.Scoring.ReputableSources)
	}

	// Untouched sections keep their defaults.
	if cfg.Curation.WindowHours != 24 {
		t.Fatalf("window hours should stay default, got %d", cfg.Curation.WindowHours)
	}
	if len(cfg.Scoring.HighRelevanceKeywords) == 0 {
		t.Fatal("keyword tiers should stay default when the file omits them")
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("NEWS_CURATOR_CONFIG", "")
	t.Setenv("NEWS_CURATOR_INPUT", "/tmp/raw.json")
	t.Setenv("NEWS_CURATOR_OUTPUT_DIR", "/tmp/out")

	cfg := Load()

	if cfg.Input.Path != "/tmp/raw.json" {
		t.Fatalf("expected env input path, got %s", cfg.Input.Path)
	}
	if cfg.Output.Dir != "/tmp/out" {
		t.Fatalf("expected env output dir, got %s", cfg.Output.Dir)
	}
}

func TestValidateRejectsBadRanges(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold above scale", func(c *Config) { c.Curation.ThresholdTotal = 31 }},
		{"zero window", func(c *Config) { c.Curation.WindowHours = 0 }},
		{"zero caps", func(c *Config) { c.Curation.MaxPerSource = 0 }},
		{"similarity above one", func(c *Config) { c.Dedupe.TitleSimilarityThreshold = 1.5 }},
		{"zero retention", func(c *Config) { c.Cache.RetentionHours = 0 }},
		{"missing input", func(c *Config) { c.Input.Path = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
