package foreground

import (
	"runtime"
	"testing"
	"time"

	"github.com/deckrun/deck/internal/process"
	"github.com/deckrun/deck/internal/supervisor"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("process driver is unix-only")
	}
}

func newDriver(t *testing.T, commands ...string) *Driver {
	t.Helper()
	procs := make([]*process.Process, len(commands))
	for i, c := range commands {
		procs[i] = process.New("p", c)
	}
	sup := supervisor.New(procs)
	if err := sup.SpawnAll(); err != nil {
		t.Fatalf("SpawnAll: %v", err)
	}
	t.Cleanup(sup.KillAll)
	return New(sup)
}

func TestNewStartsAtZeroWithAutoScrollOn(t *testing.T) {
	requireUnix(t)
	d := newDriver(t, "sleep 1", "sleep 1")
	if d.Selected() != 0 {
		t.Fatalf("Selected() = %d, want 0", d.Selected())
	}
	if !d.AutoScroll() {
		t.Fatalf("AutoScroll() = false, want true")
	}
}

func TestSelectClampsToValidRange(t *testing.T) {
	requireUnix(t)
	d := newDriver(t, "sleep 1", "sleep 1")
	d.Select(5)
	if d.Selected() != 1 {
		t.Fatalf("Select(5) clamped to %d, want 1", d.Selected())
	}
	d.Select(-3)
	if d.Selected() != 0 {
		t.Fatalf("Select(-3) clamped to %d, want 0", d.Selected())
	}
}

func TestSetScrollOffsetDisablesAutoScroll(t *testing.T) {
	requireUnix(t)
	d := newDriver(t, "sleep 1")
	d.SetScrollOffset(3)
	if d.AutoScroll() {
		t.Fatalf("AutoScroll() still true after SetScrollOffset")
	}
	if d.ScrollOffset() != 3 {
		t.Fatalf("ScrollOffset() = %d, want 3", d.ScrollOffset())
	}
}

func TestTickAdvancesScrollWhenAutoScrolling(t *testing.T) {
	requireUnix(t)
	d := newDriver(t, "printf 'a\\nb\\nc\\n'")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if d.Tick() {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if d.ScrollOffset() == 0 {
		t.Fatalf("ScrollOffset() did not advance past 0 after output flowed")
	}
}

func TestTickDrainsStderrIntoLog(t *testing.T) {
	requireUnix(t)
	d := newDriver(t, "echo oops >&2")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if d.Tick() {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	p := d.SelectedProcess()
	if p.Log.Len() != 1 {
		t.Fatalf("Log.Len() = %d, want 1 (stderr line never drained)", p.Log.Len())
	}
	line, _ := p.Log.Line(0)
	if string(line.Text) != "oops" {
		t.Fatalf("line(0) = %q, want %q", line.Text, "oops")
	}
}

func TestKillOnSelectedStopsOnlyThatProcess(t *testing.T) {
	requireUnix(t)
	d := newDriver(t, "sleep 5", "sleep 5")
	d.Select(0)
	d.Kill()
	if d.SelectedProcess().IsAlive() {
		t.Fatalf("selected process still alive after Kill")
	}
	if !d.Supervisor().At(1).IsAlive() {
		t.Fatalf("unselected process was killed too")
	}
}

func TestShutdownKillsEveryProcess(t *testing.T) {
	requireUnix(t)
	d := newDriver(t, "sleep 5", "sleep 5")
	d.Shutdown()
	if d.Supervisor().AnyAlive() {
		t.Fatalf("Shutdown left a process alive")
	}
}
