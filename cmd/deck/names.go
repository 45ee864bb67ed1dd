package main

import (
	"path/filepath"
	"strings"

	"github.com/deckrun/deck/internal/daemon"
)

// deriveSpecs pairs each command with a name: from --names if given (a
// comma-separated list whose length must match commands), otherwise from
// the first whitespace-separated token of the command with any directory
// prefix stripped (spec §6.1).
func deriveSpecs(names string, commands []string) ([]daemon.Spec, error) {
	if len(commands) == 0 {
		return nil, ErrMissingCommands
	}

	if names == "" {
		specs := make([]daemon.Spec, len(commands))
		for i, c := range commands {
			specs[i] = daemon.Spec{Name: deriveName(c), Command: c}
		}
		return specs, nil
	}

	parts := strings.Split(names, ",")
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, ErrMissingNamesValue
		}
	}
	if len(parts) != len(commands) {
		return nil, ErrNameCountMismatch
	}
	specs := make([]daemon.Spec, len(commands))
	for i, c := range commands {
		specs[i] = daemon.Spec{Name: parts[i], Command: c}
	}
	return specs, nil
}

func deriveName(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return command
	}
	return filepath.Base(fields[0])
}
