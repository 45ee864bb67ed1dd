package daemon

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/deckrun/deck/internal/session"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("daemon driver is unix-only")
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLogsMissingFileReturnsErrLogNotFound(t *testing.T) {
	dir := t.TempDir()
	err := Logs(dir, "", "nope", 0, 0, io.Discard)
	if !errors.Is(err, ErrLogNotFound) {
		t.Fatalf("Logs() error = %v, want ErrLogNotFound", err)
	}
}

func TestLogsFullFileWhenNoQuantifier(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "a", "one\ntwo\nthree\n")

	var buf bytes.Buffer
	if err := Logs(dir, "", "a", 0, 0, &buf); err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if buf.String() != "one\ntwo\nthree\n" {
		t.Fatalf("Logs() = %q", buf.String())
	}
}

func TestLogsHead(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "a", "one\ntwo\nthree\nfour\n")

	var buf bytes.Buffer
	if err := Logs(dir, "", "a", 2, 0, &buf); err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if buf.String() != "one\ntwo\n" {
		t.Fatalf("Logs(head=2) = %q", buf.String())
	}
}

func TestLogsTail(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "a", "one\ntwo\nthree\nfour\n")

	var buf bytes.Buffer
	if err := Logs(dir, "", "a", 0, 2, &buf); err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if buf.String() != "three\nfour\n" {
		t.Fatalf("Logs(tail=2) = %q", buf.String())
	}
}

func TestLogsTailExceedingLineCountReturnsWholeFile(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "a", "one\ntwo\n")

	var buf bytes.Buffer
	if err := Logs(dir, "", "a", 0, 100, &buf); err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if buf.String() != "one\ntwo\n" {
		t.Fatalf("Logs(tail=100) = %q", buf.String())
	}
}

func TestLogsHonorsLogDirOverride(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(t.TempDir(), "elsewhere")
	if err := os.MkdirAll(override, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(override, "a.log"), []byte("from override\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	// Planting a same-named log under dir's default logs/ proves Logs
	// actually followed the override instead of falling back to it.
	writeLog(t, dir, "a", "from default\n")

	var buf bytes.Buffer
	if err := Logs(dir, override, "a", 0, 0, &buf); err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if buf.String() != "from override\n" {
		t.Fatalf("Logs() with override = %q, want %q", buf.String(), "from override\n")
	}
}

func TestStopReturnsErrNotRunningWhenNoPIDFile(t *testing.T) {
	dir := t.TempDir()
	if err := Stop(dir); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Stop() = %v, want ErrNotRunning", err)
	}
}

func TestStopReturnsErrInvalidPIDForCorruptPIDFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "daemon.pid"), []byte("not-a-pid"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := Stop(dir); !errors.Is(err, ErrInvalidPID) {
		t.Fatalf("Stop() = %v, want ErrInvalidPID", err)
	}
}

func TestRunWritesLogFilesAndCleansUpOnStop(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()

	done := make(chan error, 1)
	go func() {
		done <- Run(dir, "", []Spec{{Name: "a", Command: "while :; do echo hi; sleep 0.05; done"}}, 10*time.Millisecond, discardLogger())
	}()

	logPath := filepath.Join(dir, "logs", "a.log")
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		b, err := os.ReadFile(logPath)
		if err == nil && len(b) > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	b, err := os.ReadFile(logPath)
	if err != nil || len(b) == 0 {
		t.Fatalf("log file never gained content: %v %q", err, b)
	}

	if err := Stop(dir); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not exit after Stop")
	}

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Fatalf("log file not removed after shutdown")
	}
	if _, err := os.Stat(session.PIDFilePath(dir)); !os.IsNotExist(err) {
		t.Fatalf("pidfile not removed after shutdown")
	}
}

func writeLog(t *testing.T, dir, name, content string) {
	t.Helper()
	logsDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(logsDir, name+".log"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}
