package words

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a waiting run polls the cache lock.
const lockRetryDelay = 50 * time.Millisecond

// FileLock serializes access to a word cache directory across processes.
type FileLock struct {
	path  string
	flock *flock.Flock
}

// NewFileLock returns the lock guarding dir. The lock file is <dir>/.words.lock.
func NewFileLock(dir string) *FileLock {
	path := filepath.Join(dir, ".words.lock")
	return &FileLock{path: path, flock: flock.New(path)}
}

// Lock waits for the exclusive lock until ctx is done, creating the cache
// directory first.
func (l *FileLock) Lock(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	ok, err := l.flock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("lock %s: not acquired", l.path)
	}
	return nil
}

// Unlock releases the lock. Unlocking an unheld lock is a no-op.
func (l *FileLock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", l.path, err)
	}
	return nil
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}
