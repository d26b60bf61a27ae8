//go:build windows

package exec

import "os/exec"

func setupProcessGroup(cmd *exec.Cmd) {
	// Windows has no Setpgid; each child is killed individually.
}

func terminateProcess(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

func forceKillProcess(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
