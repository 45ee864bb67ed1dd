// Package foreground implements the interactive driver: the engine-side
// state (selection, scroll, auto-scroll) and control operations (restart,
// kill, quit) the UI contract names in spec §6.2, plus the per-tick work
// (drain + auto-scroll bookkeeping) a UI event loop calls on its own
// schedule. This package defines the contract; rendering, keybindings, and
// the event loop itself belong to the dashboard.
package foreground

import (
	"github.com/deckrun/deck/internal/process"
	"github.com/deckrun/deck/internal/supervisor"
)

// Driver owns the Supervisor plus the UI-facing state spec §4.4 assigns to
// the foreground driver. It is not safe for concurrent use — the dashboard
// is expected to call it from a single event-loop goroutine, matching the
// single-threaded cooperative model the engine assumes throughout.
type Driver struct {
	sup *supervisor.Supervisor

	selected     int
	scrollOffset int
	autoScroll   bool
}

// New returns a Driver over sup. auto_scroll starts true and selected
// starts at 0, so a freshly started session tails its first process.
func New(sup *supervisor.Supervisor) *Driver {
	return &Driver{sup: sup, autoScroll: true}
}

// Spawn spawns every Process. Spawn failures abort the whole run (unlike
// the daemon driver, which isolates them per spec §7): the caller should
// kill whatever did spawn and exit on error.
func (d *Driver) Spawn() error { return d.sup.SpawnAll() }

// Tick performs one poll cycle's worth of engine work: drain every
// Process's stdout and stderr, and if bytes flowed and auto-scroll is on,
// advance scroll to the newest line of the selected Process. Returns
// whether any bytes flowed, so the caller can back off its own idle sleep.
//
// Draining stderr here, not just stdout, matters beyond what reaches the
// screen: an undrained stderr pipe fills and blocks the child once its
// kernel buffer is full, so this runs unconditionally regardless of
// whether the UI ever displays stderr separately from stdout.
func (d *Driver) Tick() bool {
	flowed := d.sup.ReadAll(true)
	if flowed && d.autoScroll {
		d.scrollOffset = d.logLen(d.selected)
	}
	return flowed
}

// Supervisor exposes read access to the underlying Supervisor for the
// dashboard's rendering needs.
func (d *Driver) Supervisor() *supervisor.Supervisor { return d.sup }

// Selected returns the index of the Process whose log is foregrounded.
func (d *Driver) Selected() int { return d.selected }

// ScrollOffset returns the current scroll position in the selected
// Process's log.
func (d *Driver) ScrollOffset() int { return d.scrollOffset }

// AutoScroll reports whether the driver advances scroll to the newest
// line as output flows.
func (d *Driver) AutoScroll() bool { return d.autoScroll }

// SelectedProcess returns the currently foregrounded Process, or nil if
// the Supervisor is empty.
func (d *Driver) SelectedProcess() *process.Process { return d.sup.At(d.selected) }

// Select moves the foregrounded Process to i, clamped to the valid range,
// and resets scroll to the bottom of its log with auto-scroll re-enabled —
// matching the expectation that switching panes shows the latest output.
func (d *Driver) Select(i int) {
	n := d.sup.Len()
	if n == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	d.selected = i
	d.autoScroll = true
	d.scrollOffset = d.logLen(i)
}

// SetScrollOffset sets the selected Process's scroll position directly and
// disables auto-scroll — the dashboard calls this in response to manual
// scroll input.
func (d *Driver) SetScrollOffset(off int) {
	d.autoScroll = false
	d.scrollOffset = off
}

// SetAutoScroll re-enables following the tail of the selected Process's
// log, jumping scroll_offset to the current end.
func (d *Driver) SetAutoScroll(on bool) {
	d.autoScroll = on
	if on {
		d.scrollOffset = d.logLen(d.selected)
	}
}

// Restart restarts the currently selected Process. A no-op if the
// Supervisor is empty.
func (d *Driver) Restart() error {
	p := d.SelectedProcess()
	if p == nil {
		return nil
	}
	return p.Restart()
}

// Kill kills the currently selected Process. A no-op if the Supervisor is
// empty.
func (d *Driver) Kill() {
	p := d.SelectedProcess()
	if p == nil {
		return
	}
	p.Kill()
}

// Shutdown kills every Process; the caller invokes this once, on quit.
func (d *Driver) Shutdown() { d.sup.KillAll() }

func (d *Driver) logLen(i int) int {
	p := d.sup.At(i)
	if p == nil {
		return 0
	}
	return p.Log.Len()
}
