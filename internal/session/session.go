// Package session resolves deck's per-working-directory session directory:
// where a daemon's PID file and per-process log files live, and how a
// caller finds them again from a later invocation in the same directory.
package session

import (
	"hash/fnv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"github.com/deckrun/deck/internal/process"
)

// PIDFileName is the daemon's PID file, relative to the session directory.
const PIDFileName = "daemon.pid"

// LogsDirName is the per-process log directory, relative to the session
// directory.
const LogsDirName = "logs"

// ID resolves the session identifier: explicit, if given verbatim with no
// sanitisation (the caller is trusted to pick something filesystem-safe);
// otherwise the lowercase-hex FNV-1a 64-bit hash of the canonicalised
// current working directory (falling back to "/tmp" if that canonicalises
// fails).
func ID(explicit string) string {
	if explicit != "" {
		return explicit
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/tmp"
	}
	canon, err := filepath.Abs(cwd)
	if err != nil {
		canon = "/tmp"
	}
	if resolved, err := filepath.EvalSymlinks(canon); err == nil {
		canon = resolved
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(canon))
	return strconv.FormatUint(h.Sum64(), 16)
}

// dataRoot returns ${XDG_DATA_HOME:-$HOME/.local/share}/deck, falling back
// to /tmp/deck when no home directory is available.
func dataRoot() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "deck")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "share", "deck")
	}
	return filepath.Join(os.TempDir(), "deck")
}

// Dir returns the session directory for the given explicit session id
// (empty to auto-derive from the cwd), creating it if it does not exist.
func Dir(explicit string) (string, error) {
	dir := filepath.Join(dataRoot(), ID(explicit))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Sanitize replaces each of '/', ' ', and '\' in name with '_', so it is
// safe to use as a log file's base name.
func Sanitize(name string) string {
	r := strings.NewReplacer("/", "_", " ", "_", "\\", "_")
	return r.Replace(name)
}

// PIDFilePath returns the daemon PID file's path within dir.
func PIDFilePath(dir string) string { return filepath.Join(dir, PIDFileName) }

// LogsDir returns the per-process log directory's path. override, when
// non-empty, replaces the default dir/logs location entirely — the
// config package's log_dir setting.
func LogsDir(dir, override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(dir, LogsDirName)
}

// LogFilePath returns the path of name's log file under LogsDir(dir,
// override).
func LogFilePath(dir, override, name string) string {
	return filepath.Join(LogsDir(dir, override), Sanitize(name)+".log")
}

// LockFilePath returns the path of the advisory lock guarding daemon start:
// when two concurrent `deck start` invocations in the same session both pass
// the AlreadyRunning check, only the detached child that takes this lock
// writes daemon.pid and supervises.
func LockFilePath(dir string) string { return filepath.Join(dir, "daemon.lock") }

// NewLock returns a (not yet acquired) flock.Flock over the session's lock
// file.
func NewLock(dir string) *flock.Flock { return flock.New(LockFilePath(dir)) }

// WritePID truncates and writes pid, as ASCII decimal, to the daemon PID
// file in dir.
func WritePID(dir string, pid int) error {
	return os.WriteFile(PIDFilePath(dir), []byte(strconv.Itoa(pid)), 0o644)
}

// ReadPID reads and parses the daemon PID file in dir. Returns an error if
// the file is missing or its contents don't parse as an integer.
func ReadPID(dir string) (int, error) {
	b, err := os.ReadFile(PIDFilePath(dir))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(b)))
}

// IsDaemonRunning implements the is_daemon_running liveness check: read
// daemon.pid, parse it, probe with signal 0. A stale pidfile (process gone)
// is unlinked and reported as not running.
func IsDaemonRunning(dir string) (running bool, pid int, err error) {
	pid, err = ReadPID(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	if process.Exists(pid) {
		return true, pid, nil
	}
	_ = os.Remove(PIDFilePath(dir))
	return false, 0, nil
}
