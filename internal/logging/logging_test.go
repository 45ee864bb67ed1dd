package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewNeverEmitsEscapesToNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug)
	log.Info("starting daemon", "session", "abc123")
	log.Error("spawn failed", "name", "web")

	if strings.Contains(buf.String(), "\033[") {
		t.Fatalf("output to a non-terminal writer contains ANSI escapes: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "starting daemon") {
		t.Fatalf("output missing logged message: %q", buf.String())
	}
}

func TestColorTextHandlerPlainModeMatchesTextHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorTextHandler(&buf, &slog.HandlerOptions{}, false)
	log := slog.New(h)
	log.Info("hello")
	if strings.Contains(buf.String(), "\033[") {
		t.Fatalf("color=false handler emitted escapes: %q", buf.String())
	}
}

func TestColorTextHandlerColorModeEmitsEscapes(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorTextHandler(&buf, &slog.HandlerOptions{}, true)
	log := slog.New(h)
	log.Warn("careful")
	if !strings.Contains(buf.String(), "\033[") {
		t.Fatalf("color=true handler did not emit escapes: %q", buf.String())
	}
}
