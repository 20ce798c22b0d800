//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, so Chrome
// helper processes die with the browser. Errors are ignored: the caller
// still runs the launcher's own Kill afterwards.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
