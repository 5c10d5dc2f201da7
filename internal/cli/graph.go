package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newGraphCommand() *cobra.Command {
	var layer string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the dependency graph in DOT format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, layer)
		},
	}
	cmd.Flags().StringVar(&layer, "layer", "", "print only this layer's subgraph")
	return cmd
}

func runGraph(cmd *cobra.Command, layer string) error {
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

	layers := g.Layers()
	if layer != "" {
		known := false
		for _, name := range layers {
			if name == layer {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("layer %s is not one of %s", layer, strings.Join(layers, ", "))
		}
		layers = []string{layer}
	}
	dot, err := g.DOT(layers...)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), dot)
	return nil
}
