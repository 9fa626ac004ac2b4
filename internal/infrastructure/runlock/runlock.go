package runlock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"NewsCurator/internal/domain"
	"NewsCurator/internal/ports"
)

const retryDelay = 100 * time.Millisecond

// FileLock guards the seen cache read-modify-write with an exclusive file
// lock so overlapping batch runs cannot interleave fingerprint writes.
type FileLock struct {
	path    string
	timeout time.Duration
}

var _ ports.RunLocker = (*FileLock)(nil)

// New builds a locker around the given lock file path.
func New(path string, timeout time.Duration) *FileLock {
	return &FileLock{path: path, timeout: timeout}
}

// Acquire takes the exclusive lock, retrying until the configured timeout.
// A run that cannot acquire it aborts with domain.ErrCacheLockTimeout
// instead of blocking indefinitely.
func (l *FileLock) Acquire(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(l.path)

	lockCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ok, err := lock.TryLockContext(lockCtx, retryDelay)
	if err != nil && lockCtx.Err() == nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		// A cancelled caller is not lock contention.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("lock %s held by another run: %w", l.path, domain.ErrCacheLockTimeout)
	}

	return func() { _ = lock.Unlock() }, nil
}
