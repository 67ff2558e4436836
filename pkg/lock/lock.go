// Package lock provides the advisory, non-blocking exclusive file
// lock the journal uses to enforce single-writer-across-processes: an
// Open call that finds the lock already held fails immediately rather
// than waiting, since the journal has exactly one writer by design and
// a second opener blocking indefinitely would just hide a
// misconfiguration.
package lock

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrWouldBlock is returned by TryLock when another process already
// holds the exclusive lock on the file.
var ErrWouldBlock = fmt.Errorf("lock held by another process")

// Lock represents an advisory exclusive lock held on an already-open
// file. The lock is tied to the file descriptor: closing the
// underlying file also releases the lock.
type Lock struct {
	file *os.File
}

// TryLock attempts to acquire a non-blocking exclusive advisory lock
// on f. On failure it returns ErrWouldBlock if the lock is held
// elsewhere, or the underlying error otherwise.
func TryLock(f *os.File) (*Lock, error) {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		if err == unix.EWOULDBLOCK || err == unix.EAGAIN {
			return nil, ErrWouldBlock
		}
		return nil, err
	}
	return &Lock{file: f}, nil
}

// Unlock releases the lock. It does not close the underlying file.
func (l *Lock) Unlock() error {
	if l == nil || l.file == nil {
		return nil
	}
	return unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
}
