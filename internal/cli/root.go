package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/topcat-io/topcat/internal/logging"
	"github.com/topcat-io/topcat/internal/version"
)

func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:           "topcat",
		Short:         "Concatenate files into a single artifact in dependency order",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.ParseLevel(os.Getenv("TOPCAT_LOG"))
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = slog.LevelDebug
			}
			logging.Setup(cmd.ErrOrStderr(), level)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	bindGenerateFlags(cmd, opts)

	cmd.AddCommand(
		newCheckCommand(),
		newListCommand(),
		newGraphCommand(),
		newInitCommand(),
		newVersionCommand(),
	)

	return cmd
}
