package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/topcat-io/topcat/internal/config"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a topcat.toml in the current directory",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	path, created, err := config.Init(wd)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(cmd.OutOrStdout(), "topcat already initialized at %s\n", path)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized topcat project at %s\n", path)
	return nil
}
