//go:build unix

package exec

import (
	"os/exec"
	"syscall"
)

func setupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func signalProcess(cmd *exec.Cmd, sig syscall.Signal) {
	if cmd.Process == nil {
		return
	}
	if pgid, err := syscall.Getpgid(cmd.Process.Pid); err == nil {
		_ = syscall.Kill(-pgid, sig)
		return
	}
	_ = cmd.Process.Signal(sig)
}

func terminateProcess(cmd *exec.Cmd) {
	signalProcess(cmd, syscall.SIGTERM)
}

func forceKillProcess(cmd *exec.Cmd) {
	signalProcess(cmd, syscall.SIGKILL)
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
