package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/topcat-io/topcat/internal/config"
	"github.com/topcat-io/topcat/internal/graph"
	"github.com/topcat-io/topcat/internal/node"
	"github.com/topcat-io/topcat/internal/scan"
)

// loadProjectConfig finds the nearest topcat.toml at or above wd and
// loads it. Without one the defaults apply, so topcat can run on
// flags alone in a directory that was never initialized.
func loadProjectConfig(wd string) (config.Config, error) {
	path, err := config.Discover(wd)
	if errors.Is(err, config.ErrNotFound) {
		return config.Default(), nil
	}
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Rebase(filepath.Dir(path))
	slog.Debug("loaded project config", "path", path)
	return cfg, nil
}

func newScanner(cfg config.Config) *scan.Scanner {
	return &scan.Scanner{
		Dirs:          cfg.InputDirs,
		IncludeHidden: cfg.IncludeHidden,
		IncludeExts:   cfg.Filter.IncludeExts,
		ExcludeExts:   cfg.Filter.ExcludeExts,
		IncludeGlobs:  cfg.Filter.IncludeGlobs,
		ExcludeGlobs:  cfg.Filter.ExcludeGlobs,
	}
}

func newParser(cfg config.Config) *node.Parser {
	return &node.Parser{
		CommentPrefix: cfg.CommentPrefix,
		Layers:        cfg.Layers,
		FallbackLayer: cfg.FallbackLayer,
	}
}

// collectNodes parses the header of every scanned file. Files that
// declare no name are not nodes and are skipped; any other header
// problem aborts the run.
func collectNodes(cfg config.Config, files []string) ([]*node.Node, error) {
	parser := newParser(cfg)
	var nodes []*node.Node
	for _, file := range files {
		n, err := parser.ParseFile(file)
		if err != nil {
			if errors.Is(err, node.ErrNoName) {
				slog.Info("ignoring file without a name directive", "path", file)
				continue
			}
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func assembleGraph(cfg config.Config, nodes []*node.Node) (*graph.Graph, error) {
	g := graph.New(cfg.Layers)
	for _, n := range nodes {
		if err := g.Add(n); err != nil {
			return nil, err
		}
	}
	if err := g.Build(); err != nil {
		return nil, err
	}
	return g, nil
}

// buildSelection translates the prefix filters and the subdirectory
// filter into a node selection. A subdirectory filter keeps the nodes
// whose files live under the directory plus everything they require.
func buildSelection(g *graph.Graph, cfg config.Config, subdir string) (*graph.Selection, error) {
	sel := &graph.Selection{
		IncludePrefixes: cfg.Filter.IncludePrefixes,
		ExcludePrefixes: cfg.Filter.ExcludePrefixes,
	}
	if subdir == "" {
		return sel, nil
	}
	resolved, err := canonicalPath(subdir)
	if err != nil {
		return nil, fmt.Errorf("resolve subdir filter %s: %w", subdir, err)
	}
	var initial []string
	for _, n := range g.Nodes() {
		path, err := canonicalPath(n.Path)
		if err != nil {
			continue
		}
		if isWithin(path, resolved) {
			initial = append(initial, n.Name)
		}
	}
	if len(initial) == 0 {
		slog.Info("no files found under the subdir filter", "subdir", subdir)
		sel.Required = map[string]bool{}
		return sel, nil
	}
	required, err := g.RequiredBy(initial)
	if err != nil {
		return nil, err
	}
	sel.Required = required
	return sel, nil
}

func readContents(nodes []*node.Node) ([]string, error) {
	contents := make([]string, 0, len(nodes))
	for _, n := range nodes {
		data, err := os.ReadFile(n.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", n.Path, err)
		}
		contents = append(contents, string(data))
	}
	return contents, nil
}
