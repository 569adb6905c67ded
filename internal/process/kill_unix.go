//go:build !windows

// Package process provides platform-specific helpers for tearing down
// external processes (the browser and its children).
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group (negative PID),
// taking a process and all its children down together.
func KillProcessGroup(pid int) {
	// Best-effort backstop behind the launcher's own Kill.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
