//go:build unix

package cache

import (
	"os"

	"golang.org/x/sys/unix"
)

// flock takes a best-effort exclusive advisory lock on f's file descriptor
// so that concurrent writers to the same cache key never interleave. The
// lock is released implicitly when f is closed.
func flock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}
