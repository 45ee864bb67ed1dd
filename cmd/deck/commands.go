package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deckrun/deck/internal/config"
	"github.com/deckrun/deck/internal/daemon"
	"github.com/deckrun/deck/internal/dashboard"
	"github.com/deckrun/deck/internal/foreground"
	"github.com/deckrun/deck/internal/logging"
	"github.com/deckrun/deck/internal/process"
	"github.com/deckrun/deck/internal/session"
	"github.com/deckrun/deck/internal/supervisor"
)

// command groups the engine entry points each cobra leaf delegates to,
// matching the teacher's receiver-type pattern: RunE bodies translate
// flags and call one of these, with no other business logic inline.
type command struct{}

// RootFlags are the flags shared by foreground and start.
type RootFlags struct {
	Names      string
	Session    string
	ConfigPath string
}

// LogsFlags are logs' flags.
type LogsFlags struct {
	Session string
	Head    int
	Tail    int
}

// Foreground runs deck's interactive TUI over commands until the user
// quits.
func (command) Foreground(flags RootFlags, commands []string) error {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	specs, err := deriveSpecs(flags.Names, commands)
	if err != nil {
		return err
	}

	procs := make([]*process.Process, len(specs))
	for i, s := range specs {
		procs[i] = process.New(s.Name, s.Command)
	}
	sup := supervisor.New(procs)
	d := foreground.New(sup)

	if err := d.Spawn(); err != nil {
		sup.KillAll()
		return fmt.Errorf("spawn: %w", err)
	}

	m := dashboard.New(d, cfg.PollInterval)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// Start launches the daemon driver detached from the controlling terminal
// and prints its PID.
func (command) Start(flags RootFlags, commands []string) error {
	specs, err := deriveSpecs(flags.Names, commands)
	if err != nil {
		return err
	}

	pid, err := daemon.Start(flags.Session, specs)
	if err != nil {
		return err
	}
	fmt.Println(pid)
	return nil
}

// RunDetached is the hidden child entry point re-exec'd by Start; it never
// returns until the daemon is asked to stop.
func (command) RunDetached(sessionID string, specs []daemon.Spec) error {
	cfg, err := config.Load("")
	if err != nil {
		cfg = config.Defaults()
	}
	dir, err := session.Dir(sessionID)
	if err != nil {
		return fmt.Errorf("session dir: %w", err)
	}
	log := logging.New(os.Stderr, slog.LevelInfo)
	return daemon.Run(dir, cfg.LogDir, specs, cfg.DaemonPollInterval, log)
}

// Stop signals the daemon running for session to shut down.
func (command) Stop(sessionID string) error {
	dir, err := session.Dir(sessionID)
	if err != nil {
		return fmt.Errorf("session dir: %w", err)
	}
	return daemon.Stop(dir)
}

// Logs streams one process's captured log. When the caller gave neither
// --head nor --tail, it falls back to config's DefaultTailLines (100).
func (command) Logs(name string, flags LogsFlags) error {
	if name == "" {
		return ErrMissingLogName
	}
	dir, err := session.Dir(flags.Session)
	if err != nil {
		return fmt.Errorf("session dir: %w", err)
	}
	cfg, err := config.Load("")
	if err != nil {
		cfg = config.Defaults()
	}
	head, tail := flags.Head, flags.Tail
	if head == 0 && tail == 0 {
		tail = cfg.DefaultTailLines
	}
	return daemon.Logs(dir, cfg.LogDir, name, head, tail, os.Stdout)
}
