//go:build !windows

package launcher

import (
	"os"
	"syscall"
)

var execFunc = syscall.Exec

// Launch replaces the current process image with the executable at
// path, forwarding args verbatim as argv[1:]. On success it never
// returns; the target inherits this process's identity, streams, and
// environment. The exit code result only accompanies failures.
func Launch(path string, args []string) (int, error) {
	argv := append([]string{path}, args...)
	if err := execFunc(path, argv, os.Environ()); err != nil {
		return 0, err
	}
	return 0, nil
}
