package publish

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrBusy is returned when another publish holds the lock.
var ErrBusy = errors.New("publish already in progress")

// Lock is an exclusive advisory file lock.
type Lock struct {
	path string
}

// NewLock creates a lock on path.
func NewLock(path string) *Lock {
	return &Lock{path: path}
}

// TryAcquire takes the lock without blocking and returns its release function.
// It returns ErrBusy when the lock is held elsewhere.
func (l *Lock) TryAcquire() (func(), error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", l.path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("flock %s: %w", l.path, err)
	}

	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
	}, nil
}
