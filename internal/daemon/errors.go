package daemon

import "errors"

// Coordination failures named by spec §7: reported to the user, no retries.
var (
	ErrAlreadyRunning = errors.New("daemon already running for this session")
	ErrNotRunning     = errors.New("daemon is not running for this session")
	ErrLogNotFound    = errors.New("log file not found for process")
	ErrInvalidPID     = errors.New("invalid pid in daemon pidfile")
)
