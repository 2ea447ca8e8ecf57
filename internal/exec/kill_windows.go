//go:build windows

package exec

import (
	osexec "os/exec"
	"strconv"
)

// setProcessGroup is a no-op on Windows; taskkill handles the tree.
func setProcessGroup(cmd *osexec.Cmd) {}

// killTree force-terminates pid and all of its descendants.
func killTree(pid int) error {
	return osexec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(pid)).Run()
}
