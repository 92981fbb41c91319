package store

import (
	"os"

	"golang.org/x/sys/unix"
)

// FileLock is an advisory flock on a lock file next to the store.
// Readers take it shared, writers exclusive.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created if it doesn't exist.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Lock acquires an exclusive lock. Blocks until the lock is acquired.
func (l *FileLock) Lock() error {
	return l.acquire(os.O_CREATE|os.O_RDWR, unix.LOCK_EX)
}

// RLock acquires a shared lock. Blocks while a writer holds the lock.
func (l *FileLock) RLock() error {
	return l.acquire(os.O_CREATE|os.O_RDONLY, unix.LOCK_SH)
}

func (l *FileLock) acquire(flag, how int) error {
	f, err := os.OpenFile(l.path, flag, 0o600)
	if err != nil {
		return err
	}
	if err := unix.Flock(int(f.Fd()), how); err != nil {
		f.Close()
		return err
	}
	l.file = f
	return nil
}

// Unlock releases the lock and closes the file.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		l.file.Close()
		l.file = nil
		return err
	}

	err := l.file.Close()
	l.file = nil
	return err
}
