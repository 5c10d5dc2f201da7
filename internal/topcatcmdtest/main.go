// topcatcmdtest is a small internal harness for transcript tests.
//
// It provisions a disposable topcat project under
// `/tmp/topcat-transcripts/tmpproj-<id>` with deterministic file
// contents and timestamps, optionally fakes an installation layout for
// launcher tests, then runs an arbitrary command inside the project
// and returns the command's exit code.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	tool, err := newToolFromExecutable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(tool.runCLI(context.Background(), os.Args[1:]))
}
