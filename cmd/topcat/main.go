package main

import (
	"log"

	"github.com/topcat-io/topcat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
