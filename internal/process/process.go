// Package process implements one supervised command: spawn, non-blocking
// drain of its stdout/stderr, exit reaping, and kill, as a small state
// machine (pending -> running -> {exited, crashed}).
package process

import (
	"errors"
	"io"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/deckrun/deck/internal/logbuf"
)

// readBufSize is the fixed-size chunk read per drain attempt; must be at
// least 4 KiB per the drain contract.
const readBufSize = 8192

// Process is one supervised command: its identity, current lifecycle
// state, captured output, and (while the child is alive) its OS handles.
//
// A Process is not safe for concurrent use from multiple goroutines; the
// engine is single-threaded cooperative by design (see the Supervisor and
// the foreground/daemon drivers), so all methods assume a single caller.
type Process struct {
	Name    string
	Command string
	Log     *logbuf.Buffer

	status   Status
	exitCode int
	hasExit  bool

	pid        int
	stdoutFD   int
	stderrFD   int
	stdoutOpen bool
	stderrOpen bool

	logFile io.Writer

	waiter processWaiter
}

// processWaiter abstracts the OS process handle so tests can avoid
// spawning real children where that's not the point of the test.
type processWaiter interface {
	Wait() (*syscall.WaitStatus, error)
	Signal(sig syscall.Signal) error
}

// New creates a Process in the pending state.
func New(name, command string) *Process {
	return &Process{
		Name:    name,
		Command: command,
		Log:     logbuf.New(),
		status:  Pending,
	}
}

// Status returns the current lifecycle state.
func (p *Process) Status() Status { return p.status }

// ExitCode returns the child's exit code and whether one is present
// (present only once Status is Exited or Crashed).
func (p *Process) ExitCode() (int, bool) { return p.exitCode, p.hasExit }

// IsAlive reports whether the Process is currently running.
func (p *Process) IsAlive() bool { return p.status == Running }

// PID returns the child's process id, or 0 if none is currently running.
func (p *Process) PID() int { return p.pid }

// SetLogFile directs every byte subsequently drained from stdout or stderr
// to w, in addition to Log, byte-for-byte and in the order each pipe was
// read — the daemon driver's per-process log file. w may be nil to stop
// teeing (the default; used in foreground mode).
func (p *Process) SetLogFile(w io.Writer) { p.logFile = w }

// Spawn launches Command via /bin/sh -c, wiring two pipes (stdout, stderr)
// with their read ends set non-blocking, and transitions to Running.
func (p *Process) Spawn() error {
	outR, outW, err := pipe()
	if err != nil {
		return err
	}
	errR, errW, err := pipe()
	if err != nil {
		_ = unix.Close(outR)
		_ = unix.Close(outW)
		return err
	}

	outWF := osFileFromFD(outW, "deck-stdout-w")
	errWF := osFileFromFD(errW, "deck-stderr-w")

	cmd := shellCommand(p.Command)
	configureSysProcAttr(cmd)
	cmd.Stdout = outWF
	cmd.Stderr = errWF

	if err := cmd.Start(); err != nil {
		_ = unix.Close(outR)
		_ = outWF.Close()
		_ = unix.Close(errR)
		_ = errWF.Close()
		return err
	}
	// The child now holds its own descriptor for each write end (dup'd by
	// fork/exec); our copy must be closed so read() on the parent side
	// observes EOF once the child (and nothing else) holds the write end.
	_ = outWF.Close()
	_ = errWF.Close()

	p.pid = cmd.Process.Pid
	p.stdoutFD = outR
	p.stderrFD = errR
	p.stdoutOpen = true
	p.stderrOpen = true
	p.waiter = &osProcessWaiter{pid: p.pid}
	p.exitCode = 0
	p.hasExit = false
	p.status = Running
	return nil
}

// ReadStdout performs a best-effort non-blocking drain of the child's
// stdout pipe, looping over individual non-blocking reads until either the
// pipe would block (EAGAIN) or reports EOF. Returns true iff at least one
// byte was appended to Log during this call.
func (p *Process) ReadStdout() bool { return p.drain(&p.stdoutFD, &p.stdoutOpen) }

// ReadStderr is the stderr analogue of ReadStdout. Both drivers drain it
// on every poll cycle — leaving it undrained risks filling the pipe and
// blocking the child regardless of whether a driver's UI surfaces stderr
// separately from stdout.
func (p *Process) ReadStderr() bool { return p.drain(&p.stderrFD, &p.stderrOpen) }

func (p *Process) drain(fd *int, open *bool) bool {
	if p.status != Running || !*open {
		return false
	}
	buf := make([]byte, readBufSize)
	drainedAny := false
	for {
		n, err := unix.Read(*fd, buf)
		switch {
		case err != nil:
			if errors.Is(err, unix.EAGAIN) {
				return drainedAny
			}
			p.crash(err)
			return false
		case n == 0:
			*open = false
			// reap closes both pipes, so first collect whatever the other
			// pipe still holds; otherwise those bytes would be lost.
			otherFD, otherOpen := &p.stderrFD, &p.stderrOpen
			if fd == &p.stderrFD {
				otherFD, otherOpen = &p.stdoutFD, &p.stdoutOpen
			}
			if *otherOpen && p.drain(otherFD, otherOpen) {
				drainedAny = true
			}
			if p.status == Running {
				p.reap()
			}
			return drainedAny
		default:
			p.Log.Append(buf[:n], time.Now())
			if p.logFile != nil {
				// File write failures are swallowed per-write (spec §7): a
				// log disk hiccup must not crash the supervised child.
				_, _ = p.logFile.Write(buf[:n])
			}
			drainedAny = true
		}
	}
}

// reap performs a blocking wait on the child. Per the suspension-point
// contract (spec §5), this is expected to return immediately: it is only
// invoked after a pipe has already reported EOF, by which point the child
// has typically already exited.
func (p *Process) reap() {
	if p.waiter == nil {
		return
	}
	ws, err := p.waiter.Wait()
	p.clearHandles()
	switch {
	case err != nil:
		p.status = Crashed
		p.hasExit = false
	case ws.Exited() && ws.ExitStatus() == 0:
		p.exitCode = 0
		p.hasExit = true
		p.status = Exited
	case ws.Exited():
		p.exitCode = ws.ExitStatus()
		p.hasExit = true
		p.status = Crashed
	default:
		// killed by signal, stopped, or some other non-exit wait outcome
		p.status = Crashed
		p.hasExit = false
	}
}

// crash marks the Process crashed following a non-EAGAIN read error and
// releases its OS resources; err is swallowed per the "read errors are
// fatal to this Process only" policy (spec §4.2, §7).
func (p *Process) crash(err error) {
	_ = err
	p.status = Crashed
	p.hasExit = false
	p.killQuiet()
	p.clearHandles()
}

// Kill sends a best-effort termination to the child's process group and
// reaps it so no zombie is left behind. Idempotent: calling it again once
// the Process is already terminal is a no-op.
func (p *Process) Kill() {
	if p.status != Running {
		return
	}
	p.killQuiet()
	if p.waiter != nil {
		_, _ = p.waiter.Wait()
	}
	p.clearHandles()
	// 128+signal is the conventional shell exit code for death-by-signal;
	// there is no "true" exit code for a SIGKILL'd child.
	p.exitCode = 128 + int(syscall.SIGKILL)
	p.hasExit = true
	p.status = Exited
}

// killQuiet sends SIGKILL to the child's process group; any error is
// swallowed (best-effort, per spec §4.2's failure semantics for kill/reap).
func (p *Process) killQuiet() {
	if p.waiter == nil {
		return
	}
	_ = p.waiter.Signal(syscall.SIGKILL)
}

func (p *Process) clearHandles() {
	if p.stdoutOpen {
		_ = unix.Close(p.stdoutFD)
		p.stdoutOpen = false
	}
	if p.stderrOpen {
		_ = unix.Close(p.stderrFD)
		p.stderrOpen = false
	}
	p.pid = 0
	p.waiter = nil
}

// Restart kills the current child (if any), clears the log, and spawns a
// fresh one.
func (p *Process) Restart() error {
	p.Kill()
	p.Log.Clear()
	p.exitCode = 0
	p.hasExit = false
	p.status = Pending
	return p.Spawn()
}

// osFileFromFD wraps a raw write-end fd as *os.File so exec.Cmd ties the
// child's stdout/stderr directly to it (no extra copying goroutine).
func osFileFromFD(fd int, name string) *os.File {
	return os.NewFile(uintptr(fd), name)
}

func pipe() (readFD, writeFD int, err error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return 0, 0, err
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}

// osProcessWaiter reaps a child by pid using syscall.Wait4, matching the
// teacher's WNOHANG reap pattern but blocking since EOF already implies
// the child has exited or is about to.
type osProcessWaiter struct {
	pid int
}

func (w *osProcessWaiter) Wait() (*syscall.WaitStatus, error) {
	var ws syscall.WaitStatus
	for {
		_, err := syscall.Wait4(w.pid, &ws, 0, nil)
		if err == syscall.EINTR {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &ws, nil
	}
}

func (w *osProcessWaiter) Signal(sig syscall.Signal) error {
	// Signal the whole process group (negative pid) so children spawned by
	// the shell are terminated too; configureSysProcAttr put the child in
	// its own group via Setpgid.
	return syscall.Kill(-w.pid, sig)
}
