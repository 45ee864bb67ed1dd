// Package logging provides deck's structured diagnostic logger. It is used
// for daemon lifecycle messages and CLI diagnostics only — captured child
// output is raw bytes through the logbuf/daemon log-file path and never
// passes through here.
package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// New builds a logger writing to w at the given minimum level. Output is
// colorized when w is a terminal (checked via its Fd, when available) and
// plain otherwise — e.g. when stderr has been redirected to a file in
// daemon mode. New never fails: a non-terminal destination just means a
// plain-text handler, never an error.
func New(w io.Writer, level slog.Level) *slog.Logger {
	handler := NewColorTextHandler(w, &slog.HandlerOptions{Level: level}, isTerminal(w))
	return slog.New(handler)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
