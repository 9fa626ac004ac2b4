package seenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"NewsCurator/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS seen_fingerprints (
    fingerprint TEXT PRIMARY KEY,
    first_seen  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_seen_first_seen ON seen_fingerprints (first_seen);
`

// timeLayout keeps stored timestamps lexicographically comparable.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Store persists seen fingerprints in an embedded SQLite database so state
// survives across process invocations within the retention window.
type Store struct {
	db   *sql.DB
	path string
}

var _ ports.SeenStore = (*Store)(nil)

// Open initializes or connects to the fingerprint database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Seen reports whether the fingerprint was recorded and when.
func (s *Store) Seen(ctx context.Context, fingerprint string) (time.Time, bool, error) {
	query, args, err := sq.Select("first_seen").
		From("seen_fingerprints").
		Where(sq.Eq{"fingerprint": fingerprint}).
		ToSql()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build seen query: %w", err)
	}

	var raw string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("query fingerprint: %w", err)
	}

	firstSeen, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse first_seen %q: %w", raw, err)
	}
	return firstSeen, true, nil
}

// SeenBatch returns the first-seen timestamps of every known fingerprint in
// the input, in one query.
func (s *Store) SeenBatch(ctx context.Context, fingerprints []string) (map[string]time.Time, error) {
	result := make(map[string]time.Time, len(fingerprints))
	if len(fingerprints) == 0 {
		return result, nil
	}

	query, args, err := sq.Select("fingerprint", "first_seen").
		From("seen_fingerprints").
		Where(sq.Eq{"fingerprint": fingerprints}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build batch query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fingerprint, raw string
		if err := rows.Scan(&fingerprint, &raw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		firstSeen, err := time.Parse(timeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("parse first_seen %q: %w", raw, err)
		}
		result[fingerprint] = firstSeen
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// Record stores the fingerprints with the given first-seen timestamp in a
// single transaction. Fingerprints recorded by an earlier run keep their
// original timestamp.
func (s *Store) Record(ctx context.Context, fingerprints []string, seenAt time.Time) error {
	if len(fingerprints) == 0 {
		return nil
	}

	builder := sq.Insert("seen_fingerprints").Columns("fingerprint", "first_seen")
	for _, fingerprint := range fingerprints {
		builder = builder.Values(fingerprint, seenAt.UTC().Format(timeLayout))
	}
	query, args, err := builder.
		Suffix("ON CONFLICT(fingerprint) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert fingerprints: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fingerprints: %w", err)
	}
	return nil
}

// EvictExpired removes entries older than the retention window and returns
// the removed count. Runs before every batch's dedup passes.
func (s *Store) EvictExpired(ctx context.Context, now time.Time, retention time.Duration) (int64, error) {
	cutoff := now.UTC().Add(-retention).Format(timeLayout)

	query, args, err := sq.Delete("seen_fingerprints").
		Where(sq.Lt{"first_seen": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}
