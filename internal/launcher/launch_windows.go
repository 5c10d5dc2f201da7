//go:build windows

package launcher

import (
	"errors"
	"os"
	"os/exec"
)

// Launch spawns the executable at path as a child with inherited
// standard streams, waits for it to terminate, and returns its exact
// exit code. Process image replacement is unavailable on Windows, so
// spawn-and-wait with exit code propagation stands in for it.
func Launch(path string, args []string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}
