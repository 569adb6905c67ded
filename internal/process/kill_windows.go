//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills a process and all its children using a
// taskkill tree kill (/F force, /T include children).
func KillProcessGroup(pid int) {
	// Best-effort backstop behind the launcher's own Kill.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
