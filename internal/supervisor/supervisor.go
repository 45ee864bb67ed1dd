// Package supervisor fans out spawn/drain/kill operations over a fixed-size
// collection of processes. It owns no scheduling policy: all processes are
// peers, polled round-robin by whichever driver calls it each iteration.
package supervisor

import (
	"fmt"

	"github.com/deckrun/deck/internal/process"
)

// Supervisor holds a fixed-size ordered sequence of Processes established at
// construction time. The sequence never grows or shrinks after New.
type Supervisor struct {
	procs []*process.Process
}

// New builds a Supervisor over procs, in the given order. Order is
// significant only insofar as it is the iteration (and UI tab) order; the
// Supervisor does not otherwise distinguish between members.
func New(procs []*process.Process) *Supervisor {
	cp := make([]*process.Process, len(procs))
	copy(cp, procs)
	return &Supervisor{procs: cp}
}

// Processes returns the managed sequence, in construction order. Callers may
// read but must not mutate the returned slice's backing array through it.
func (s *Supervisor) Processes() []*process.Process { return s.procs }

// Len returns the number of managed processes.
func (s *Supervisor) Len() int { return len(s.procs) }

// At returns the process at index i, or nil if i is out of range.
func (s *Supervisor) At(i int) *process.Process {
	if i < 0 || i >= len(s.procs) {
		return nil
	}
	return s.procs[i]
}

// SpawnAll spawns every process in order, stopping at the first failure and
// propagating it; processes already spawned earlier in this call are left
// running (the caller decides whether to KillAll on error).
func (s *Supervisor) SpawnAll() error {
	for _, p := range s.procs {
		if err := p.Spawn(); err != nil {
			return fmt.Errorf("spawn %s: %w", p.Name, err)
		}
	}
	return nil
}

// ReadAll drains stdout (and, when drainStderr is true, stderr) of every
// process once and reports whether any one of them drained bytes. A driver
// uses this return value to decide whether to stay busy or idle-sleep.
func (s *Supervisor) ReadAll(drainStderr bool) bool {
	any := false
	for _, p := range s.procs {
		if p.ReadStdout() {
			any = true
		}
		if drainStderr && p.ReadStderr() {
			any = true
		}
	}
	return any
}

// KillAll kills every process. Best-effort and always "succeeds": a process
// that is already terminal is simply skipped (Kill is idempotent anyway).
func (s *Supervisor) KillAll() {
	for _, p := range s.procs {
		p.Kill()
	}
}

// AnyAlive reports whether at least one process is currently running.
func (s *Supervisor) AnyAlive() bool {
	for _, p := range s.procs {
		if p.IsAlive() {
			return true
		}
	}
	return false
}
