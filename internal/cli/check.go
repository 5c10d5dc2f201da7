package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/topcat-io/topcat/internal/config"
	"github.com/topcat-io/topcat/internal/node"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate file headers, dependencies, and layers without writing output",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
}

type checkContext struct {
	Config config.Config
	Loaded bool
	Nodes  []*node.Node
}

type checkStep struct {
	Name string
	Fn   func(*checkContext) error
}

func runCheck(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	ctx := &checkContext{}
	wd, _ := os.Getwd()
	checks := []checkStep{
		{Name: "project config", Fn: func(c *checkContext) error {
			cfg, err := loadProjectConfig(wd)
			if err != nil {
				return err
			}
			c.Config = cfg
			c.Loaded = true
			return nil
		}},
		{Name: "input directories", Fn: checkInputDirs},
		{Name: "file headers", Fn: checkHeaders},
		{Name: "dependency graph", Fn: checkGraph},
	}

	var failures []string
	for _, check := range checks {
		err := check.Fn(ctx)
		if err != nil {
			failures = append(failures, fmt.Sprintf("✗ %s: %v", check.Name, err))
			continue
		}
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", check.Name)
		}
	}

	if len(failures) > 0 {
		for _, failure := range failures {
			fmt.Fprintln(cmd.ErrOrStderr(), failure)
		}
		return fmt.Errorf("%d problems found", len(failures))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "no problems found")
	return nil
}

func checkInputDirs(c *checkContext) error {
	if !c.Loaded {
		return errors.New("config not loaded")
	}
	if len(c.Config.InputDirs) == 0 {
		return errors.New("no input directories configured; set input_dirs in topcat.toml")
	}
	var missing []string
	for _, dir := range c.Config.InputDirs {
		if !isDir(dir) {
			missing = append(missing, dir)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

func checkHeaders(c *checkContext) error {
	if !c.Loaded {
		return errors.New("config not loaded")
	}
	files := newScanner(c.Config).Files()
	parser := newParser(c.Config)
	var bad int
	var first error
	for _, file := range files {
		n, err := parser.ParseFile(file)
		if err != nil {
			if errors.Is(err, node.ErrNoName) {
				continue
			}
			bad++
			if first == nil {
				first = err
			}
			continue
		}
		c.Nodes = append(c.Nodes, n)
	}
	if bad > 1 {
		return fmt.Errorf("%v (and %d more)", first, bad-1)
	}
	if bad == 1 {
		return first
	}
	return nil
}

func checkGraph(c *checkContext) error {
	if !c.Loaded {
		return errors.New("config not loaded")
	}
	_, err := assembleGraph(c.Config, c.Nodes)
	return err
}
