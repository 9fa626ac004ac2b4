package feedjson

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"NewsCurator/internal/domain"
	"NewsCurator/internal/ports"
)

// Source reads the scraper collaborator's raw article dump. The scraper
// writes either a bare JSON array or an envelope with an "articles" field.
type Source struct {
	path   string
	logger *slog.Logger
}

var _ ports.EntrySource = (*Source)(nil)

type envelope struct {
	Articles []domain.RawEntry `json:"articles"`
}

// New wires a file-backed entry source.
func New(path string, logger *slog.Logger) *Source {
	return &Source{path: path, logger: logger}
}

// Entries loads and decodes the raw entries.
func (s *Source) Entries(ctx context.Context) ([]domain.RawEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read raw articles %s: %w", s.path, err)
	}

	var wrapped envelope
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Articles != nil {
		s.debug("loaded raw entries", "path", s.path, "count", len(wrapped.Articles), "format", "envelope")
		return wrapped.Articles, nil
	}

	var entries []domain.RawEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse raw articles %s: %w", s.path, err)
	}
	s.debug("loaded raw entries", "path", s.path, "count", len(entries), "format", "array")
	return entries, nil
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
