//go:build !windows

package exec

import (
	osexec "os/exec"
	"syscall"
)

// setProcessGroup places the child in its own process group so a single
// signal can reach every descendant.
func setProcessGroup(cmd *osexec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killTree sends SIGKILL to the process group rooted at pid. Dispatch only:
// the caller observes actual exit through the process's own Wait.
func killTree(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}
