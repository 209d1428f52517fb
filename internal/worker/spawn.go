package worker

import (
	"fmt"
	"os"
	"os/exec"
)

// ExecSpawner starts `<executable> <args...> --name <name> --token <token>`
// as a detached process
func ExecSpawner(executable string, args ...string) SpawnFunc {
	return func(name, token string) (int, error) {
		cmdArgs := append(append([]string{}, args...), "--name", name, "--token", token)
		cmd := exec.Command(executable, cmdArgs...)
		cmd.Stdin = nil
		cmd.Stdout = nil
		cmd.Stderr = nil
		detach(cmd)

		if err := cmd.Start(); err != nil {
			return 0, fmt.Errorf("failed to start %s: %w", executable, err)
		}
		pid := cmd.Process.Pid
		if err := cmd.Process.Release(); err != nil {
			return pid, err
		}
		return pid, nil
	}
}

// CurrentExecutable returns the running binary's path
func CurrentExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate liftlog executable: %w", err)
	}
	return exe, nil
}
