package main

import (
	"fmt"
	"os"

	"github.com/topcat-io/topcat/internal/launcher"
	"github.com/topcat-io/topcat/internal/scheme"
)

func main() {
	path, err := launcher.Resolve(scheme.HostProvider{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "topcat-shim: %v\n", err)
		os.Exit(1)
	}
	code, err := launcher.Launch(path, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "topcat-shim: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}
