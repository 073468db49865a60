// Package runlock stops two runs from writing into the same output root at
// once. The lock file lives in the OS temp directory, keyed by a hash of
// the output root, so the output tree holds nothing but audio files.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run holds the lock.
var ErrLocked = errors.New("another run is already writing to this output folder")

// Lock is a held run lock. Release it when the run ends.
type Lock struct {
	path  string
	flock *flock.Flock
}

// PathFor returns the lock file path for outputRoot. outputRoot should be
// absolute and cleaned so equal roots map to one file.
func PathFor(outputRoot string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(outputRoot)))
	return filepath.Join(os.TempDir(), "sampleclean-"+hex.EncodeToString(sum[:8])+".lock")
}

// Acquire takes the lock for outputRoot without blocking.
func Acquire(outputRoot string) (*Lock, error) {
	path := PathFor(outputRoot)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, path)
	}
	return &Lock{path: path, flock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release unlocks. The lock file is left in place: removing it would let a
// waiter lock an unlinked inode while a third run creates a fresh file.
// Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	err := l.flock.Unlock()
	l.flock = nil
	if err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	return nil
}
