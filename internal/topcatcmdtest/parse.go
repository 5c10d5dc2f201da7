// Argument parsing for the `topcatcmdtest` harness.
//
// Supported flags:
//   - `--bare` (leave the project unseeded)
//   - `--subdir <dir>` (cd under the temp project before running)
//   - `--venv` / `--empty-venv` (fake virtual environment, with or without a topcat stub)
//   - `--user-bin` (install the topcat stub into the fake home)
//   - `--expect-exit <n>` (assert the command's exit code, then exit 0)
//   - `--keep` (preserve the temp project for debugging)
//   - `-h/--help`
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

type options struct {
	bare       bool
	subdir     string
	venv       bool
	emptyVenv  bool
	userBin    bool
	expectExit int
	keepRepo   bool
	help       bool
}

func parseArgs(args []string) (options, []string, error) {
	var opts options

	fs := flag.NewFlagSet("topcatcmdtest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVar(&opts.bare, "bare", false, "")
	fs.StringVar(&opts.subdir, "subdir", "", "")
	fs.BoolVar(&opts.venv, "venv", false, "")
	fs.BoolVar(&opts.emptyVenv, "empty-venv", false, "")
	fs.BoolVar(&opts.userBin, "user-bin", false, "")
	fs.IntVar(&opts.expectExit, "expect-exit", -1, "")
	fs.BoolVar(&opts.keepRepo, "keep", false, "")

	fs.BoolVar(&opts.help, "help", false, "")
	fs.BoolVar(&opts.help, "h", false, "")

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}
	if opts.help {
		return opts, nil, nil
	}

	if opts.venv && opts.emptyVenv {
		return options{}, nil, errors.New("choose one of --venv or --empty-venv")
	}

	if opts.subdir != "" {
		if filepath.IsAbs(opts.subdir) {
			return options{}, nil, errors.New("subdir must be a relative path")
		}
		clean := filepath.Clean(opts.subdir)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return options{}, nil, fmt.Errorf("subdir must not escape the project root: %q", opts.subdir)
		}
	}

	cmd := fs.Args()
	if len(cmd) == 0 {
		return options{}, nil, errors.New("missing command")
	}

	return opts, cmd, nil
}
