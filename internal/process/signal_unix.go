//go:build !windows

package process

import "syscall"

// Exists reports whether pid names a live process, probed via the
// zero-signal convention (kill(pid, 0) with no actual delivery). Used by the
// daemon driver and the session package to detect a stale pidfile left
// behind by a daemon that died without cleaning up.
func Exists(pid int) bool {
	// EPERM means the process exists but belongs to someone else.
	err := syscall.Kill(pid, 0)
	return err == nil || err == syscall.EPERM
}

// Signal delivers sig to pid directly (not to its process group), for
// callers that only hold a bare pid read back from a pidfile and have no
// processWaiter to go through.
func Signal(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}
