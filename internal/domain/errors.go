package domain

import "errors"

// Batch-level failures abort the run; everything else degrades into a
// rejection record and never crashes the pipeline.
var (
	// ErrMalformedInput marks a raw entry with neither title nor summary.
	// Such entries never reach scoring.
	ErrMalformedInput = errors.New("malformed input: title and summary are both empty")

	// ErrCacheLockTimeout is returned when a concurrent run holds the seen
	// cache lock past the configured timeout. The batch aborts cleanly with
	// no state mutation and is safe to retry.
	ErrCacheLockTimeout = errors.New("seen cache lock not acquired within timeout")

	// ErrCachePersistence is returned when the updated seen cache cannot be
	// written. The curation result must not be treated as committed.
	ErrCachePersistence = errors.New("seen cache persistence failed")
)
