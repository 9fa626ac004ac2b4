package ports

import (
	"context"
	"time"

	"NewsCurator/internal/domain"
)

// EntrySource delivers the raw entries produced by the scraping collaborator.
type EntrySource interface {
	Entries(ctx context.Context) ([]domain.RawEntry, error)
}

// SeenStore remembers article fingerprints across runs for the retention window.
type SeenStore interface {
	Seen(ctx context.Context, fingerprint string) (time.Time, bool, error)
	SeenBatch(ctx context.Context, fingerprints []string) (map[string]time.Time, error)
	Record(ctx context.Context, fingerprints []string, seenAt time.Time) error
	EvictExpired(ctx context.Context, now time.Time, retention time.Duration) (int64, error)
}

// ResultWriter persists curation artifacts for the website collaborator.
type ResultWriter interface {
	Write(ctx context.Context, result domain.CurationResult) error
}

// RunLocker serializes overlapping batch invocations around the seen cache
// read-modify-write. Acquire blocks up to the locker's configured timeout and
// returns domain.ErrCacheLockTimeout when another run holds the lock.
type RunLocker interface {
	Acquire(ctx context.Context) (release func(), err error)
}
