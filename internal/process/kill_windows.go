//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its child tree with taskkill.
// Errors are ignored: the caller still runs the launcher's own Kill afterwards.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
