package main

import (
	"github.com/spf13/cobra"

	"github.com/deckrun/deck/internal/daemon"
)

// validateSessionFlag rejects `--session ""` the same way the head/tail
// flags reject a non-positive value: only when the user actually passed
// the flag, since an unset --session is meant to fall back to the
// derived-from-cwd default, not an error.
func validateSessionFlag(cmd *cobra.Command, value string) error {
	if cmd.Flags().Changed("session") && value == "" {
		return ErrMissingSessionValue
	}
	return nil
}

// buildRoot assembles deck's cobra.Command tree. Each leaf's RunE body
// only translates flags and calls into command; the engine entry points
// themselves live in commands.go.
func buildRoot() *cobra.Command {
	deckCommand := command{}
	rootFlags := &RootFlags{}
	logsFlags := &LogsFlags{}

	root := &cobra.Command{
		Use:   "deck [flags] CMD [CMD ...]",
		Short: "Run and watch a small set of long-lived commands side by side",
		Long: `deck concurrently runs a small set of long-lived developer commands
(build watchers, dev servers, test runners), captures their output into
per-process scrollback, and gives you a switchable terminal dashboard to
watch them. Pair it with "deck start" to run the same supervision headless
and "deck logs" to tail a process's output from another terminal.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSessionFlag(cmd, rootFlags.Session); err != nil {
				return err
			}
			return deckCommand.Foreground(*rootFlags, args)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&rootFlags.Names, "names", "n", "", "comma-separated process names, one per command")
	root.Flags().StringVarP(&rootFlags.Session, "session", "s", "", "session id override (default: derived from the working directory)")
	root.Flags().StringVar(&rootFlags.ConfigPath, "config", "", "explicit deck.toml path (default: search ./deck.toml and XDG locations)")

	root.AddCommand(
		createStartCommand(deckCommand),
		createDaemonRunCommand(deckCommand),
		createStopCommand(deckCommand),
		createLogsCommand(deckCommand, logsFlags),
	)

	return root
}

func createStartCommand(deckCommand command) *cobra.Command {
	startFlags := &RootFlags{}
	cmd := &cobra.Command{
		Use:   "start [flags] CMD [CMD ...]",
		Short: "Run the same supervision detached from the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSessionFlag(cmd, startFlags.Session); err != nil {
				return err
			}
			return deckCommand.Start(RootFlags{
				Names:   startFlags.Names,
				Session: startFlags.Session,
			}, args)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&startFlags.Names, "names", "n", "", "comma-separated process names, one per command")
	cmd.Flags().StringVarP(&startFlags.Session, "session", "s", "", "session id override")
	return cmd
}

// createDaemonRunCommand wires the hidden daemon.RunSubcommand leaf: the
// re-exec'd child of "deck start" lands here. It is intentionally absent
// from any usage text a user would see.
func createDaemonRunCommand(deckCommand command) *cobra.Command {
	var sessionID string
	var names, commands []string
	cmd := &cobra.Command{
		Use:    daemon.RunSubcommand,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSessionFlag(cmd, sessionID); err != nil {
				return err
			}
			if len(names) != len(commands) {
				return ErrNameCountMismatch
			}
			specs := make([]daemon.Spec, len(names))
			for i := range names {
				specs[i] = daemon.Spec{Name: names[i], Command: commands[i]}
			}
			return deckCommand.RunDetached(sessionID, specs)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "")
	cmd.Flags().StringArrayVar(&names, "name", nil, "")
	cmd.Flags().StringArrayVar(&commands, "command", nil, "")
	return cmd
}

func createStopCommand(deckCommand command) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon running for this session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSessionFlag(cmd, sessionID); err != nil {
				return err
			}
			return deckCommand.Stop(sessionID)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id override")
	return cmd
}

func createLogsCommand(deckCommand command, logsFlags *LogsFlags) *cobra.Command {
	var head, tail int
	cmd := &cobra.Command{
		Use:   "logs NAME",
		Short: "Stream one process's captured log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSessionFlag(cmd, logsFlags.Session); err != nil {
				return err
			}
			if cmd.Flags().Changed("head") {
				if head <= 0 {
					return ErrInvalidHeadValue
				}
				logsFlags.Head = head
			}
			if cmd.Flags().Changed("tail") {
				if tail <= 0 {
					return ErrInvalidTailValue
				}
				logsFlags.Tail = tail
			}
			return deckCommand.Logs(args[0], *logsFlags)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&logsFlags.Session, "session", "s", "", "session id override")
	cmd.Flags().IntVar(&head, "head", 0, "stream the first N lines")
	cmd.Flags().IntVar(&tail, "tail", 0, "stream the last N lines (default 100 when neither --head nor --tail is given)")
	return cmd
}
