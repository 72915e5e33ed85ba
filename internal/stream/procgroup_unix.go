//go:build unix

package stream

import (
	"os/exec"
	"syscall"
)

// setProcessGroup makes the capture process lead its own process group so a
// stop signal reaches any children it forks.
func setProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// signalGroup delivers sig to the whole process group, falling back to the
// single pid when the group is gone or restricted. Errors are swallowed: the
// process may legitimately have exited already.
func signalGroup(pid int, sig syscall.Signal) {
	if pid <= 0 {
		return
	}
	if err := syscall.Kill(-pid, sig); err != nil {
		_ = syscall.Kill(pid, sig)
	}
}
