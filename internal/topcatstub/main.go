// topcatstub stands in for an installed `topcat` executable in
// transcript tests.
//
// It prints a recognizable banner plus each argument it received, so
// transcripts can assert which installation was launched and that the
// launcher forwarded argv verbatim. `TOPCAT_STUB_EXIT` sets its exit
// code for exit propagation tests.
package main

import (
	"fmt"
	"os"
	"strconv"
)

func main() {
	fmt.Fprintln(os.Stdout, "topcat stub invoked")
	for _, arg := range os.Args[1:] {
		fmt.Fprintf(os.Stdout, "arg: %s\n", arg)
	}

	if raw := os.Getenv("TOPCAT_STUB_EXIT"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "topcat stub: bad TOPCAT_STUB_EXIT: %q\n", raw)
			os.Exit(1)
		}
		os.Exit(code)
	}
}
