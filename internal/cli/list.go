package cli

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/topcat-io/topcat/internal/timefmt"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered nodes in concatenation order",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := loadProjectConfig(wd)
	if err != nil {
		return err
	}
	nodes, err := collectNodes(cfg, newScanner(cfg).Files())
	if err != nil {
		return err
	}
	g, err := assembleGraph(cfg, nodes)
	if err != nil {
		return err
	}
	ordered, err := g.Ordered(nil)
	if err != nil {
		return err
	}

	now := currentTimeOverride()
	rows := [][]string{{"NAME", "LAYER", "DEPS", "AGE", "FILE"}}
	for _, n := range ordered {
		age := "unknown"
		if info, err := os.Stat(n.Path); err == nil {
			age = timefmt.Age(info.ModTime(), now)
		}
		rows = append(rows, []string{
			n.Name,
			n.Layer,
			strconv.Itoa(len(n.Requires)),
			age,
			displayPath(wd, n.Path),
		})
	}
	writeColumns(cmd.OutOrStdout(), rows)
	return nil
}
