//go:build !windows

package process

import "os/exec"

// shellCommand builds the *exec.Cmd that runs script via a POSIX shell,
// per the Process state machine's spawn contract: argv ["/bin/sh", "-c", command].
func shellCommand(script string) *exec.Cmd {
	// #nosec G204
	return exec.Command("/bin/sh", "-c", script)
}
