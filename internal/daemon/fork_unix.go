//go:build !windows

package daemon

import (
	"os/exec"
	"syscall"
)

// configureDetachAttrs makes cmd a session leader (Setsid), disassociating
// it from the controlling terminal — the "detach into a new session" step
// of the daemon start path.
func configureDetachAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
