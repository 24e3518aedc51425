// Package runlock enforces single-instance execution so two concurrent
// linking passes cannot interleave writes against the same Stash server.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld reports that another process holds the lock.
var ErrHeld = errors.New("another gallery-linker run is already in progress")

// Lock is a file-based mutual exclusion guard around one run.
type Lock struct {
	path string
	lock *flock.Flock
}

// New prepares a lock at path. Nothing is acquired until Acquire.
func New(path string) *Lock {
	return &Lock{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking; a held lock returns ErrHeld.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("ensure lock dir: %w", err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return ErrHeld
	}
	return nil
}

// Release drops the lock. Releasing an unacquired lock is a no-op.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}
