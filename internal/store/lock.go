package store

import (
	"os"
	"syscall"
	"time"

	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// lockTimeout bounds how long persist() waits for the advisory lock before
// giving up and reporting the project as busy, per spec §4.1.
const lockTimeout = 5 * time.Second
const lockRetryInterval = 50 * time.Millisecond

// lockExclusive takes an advisory exclusive lock on s.lockPath, creating
// the lock file if needed. No flock library exists anywhere in the
// example corpus to ground this on (see DESIGN.md); syscall.Flock is a
// one-line wrapper, not a reimplementation of library logic.
func (s *Store) lockExclusive() (func(), error) {
	f, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindIO, err, "store: open lock file %s", s.lockPath)
	}

	deadline := time.Now().Add(lockTimeout)
	for {
		err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			f.Close()
			return nil, xerrors.New(xerrors.KindIO, "project busy: could not acquire lock %s within %s", s.lockPath, lockTimeout).
				WithHint("another Xavier process may be writing this project's data directory")
		}
		time.Sleep(lockRetryInterval)
	}

	return func() {
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
	}, nil
}
