//go:build unix

package worker

import (
	"os/exec"
	"syscall"
)

// detach starts the worker in its own session so closing the terminal does not stop it
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
