//go:build windows

package player

import (
	"os/exec"
	"syscall"
)

// The player opens its own window; nothing to detach.
func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
