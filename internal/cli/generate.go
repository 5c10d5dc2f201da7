package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/topcat-io/topcat/internal/config"
	"github.com/topcat-io/topcat/internal/output"
)

type generateOptions struct {
	inputDirs       []string
	output          string
	includeExts     []string
	excludeExts     []string
	includeGlobs    []string
	excludeGlobs    []string
	includePrefixes []string
	excludePrefixes []string
	commentPrefix   string
	fileSeparator   string
	fileSuffix      string
	includeHidden   bool
	subdirFilter    string
	layers          string
	fallbackLayer   string
	dryRun          bool
}

func bindGenerateFlags(cmd *cobra.Command, opts *generateOptions) {
	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.inputDirs, "input-dir", "i", nil, "directory to scan for input files (repeatable)")
	flags.StringVarP(&opts.output, "output", "o", "", "path of the combined output file")
	flags.StringArrayVarP(&opts.includeExts, "include-ext", "e", nil, "only include files with this extension (repeatable)")
	flags.StringArrayVarP(&opts.excludeExts, "exclude-ext", "E", nil, "exclude files with this extension (repeatable)")
	flags.StringArrayVarP(&opts.includeGlobs, "include-glob", "g", nil, "only include files matching this glob (repeatable)")
	flags.StringArrayVarP(&opts.excludeGlobs, "exclude-glob", "G", nil, "exclude files matching this glob (repeatable)")
	flags.StringArrayVar(&opts.includePrefixes, "include-prefix", nil, "only emit nodes whose name starts with this prefix (repeatable)")
	flags.StringArrayVar(&opts.excludePrefixes, "exclude-prefix", nil, "skip nodes whose name starts with this prefix (repeatable)")
	flags.StringVarP(&opts.commentPrefix, "comment-prefix", "c", "--", "comment prefix that marks header lines")
	flags.StringVarP(&opts.fileSeparator, "file-separator", "s", "", "text placed on its own line between files (default: a line of 120 dashes)")
	flags.StringVarP(&opts.fileSuffix, "file-suffix", "a", ";", "appended to each file that does not already end with it")
	flags.BoolVar(&opts.includeHidden, "include-hidden", false, "scan hidden files and directories too")
	flags.StringVar(&opts.subdirFilter, "subdir-filter", "", "only emit files under this directory and the nodes they require")
	flags.StringVar(&opts.layers, "layers", "", "comma-separated layer names in concatenation order (default: prepend,normal,append)")
	flags.StringVar(&opts.fallbackLayer, "fallback-layer", "", "layer for files without a layer directive (default: normal)")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "print the combined output to stdout instead of writing it")
}

// apply overlays flags the user actually set onto the project config,
// so explicit flags win over topcat.toml and unset flags leave it
// alone.
func (o *generateOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input-dir") {
		cfg.InputDirs = o.inputDirs
	}
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("include-ext") {
		cfg.Filter.IncludeExts = o.includeExts
	}
	if flags.Changed("exclude-ext") {
		cfg.Filter.ExcludeExts = o.excludeExts
	}
	if flags.Changed("include-glob") {
		cfg.Filter.IncludeGlobs = o.includeGlobs
	}
	if flags.Changed("exclude-glob") {
		cfg.Filter.ExcludeGlobs = o.excludeGlobs
	}
	if flags.Changed("include-prefix") {
		cfg.Filter.IncludePrefixes = o.includePrefixes
	}
	if flags.Changed("exclude-prefix") {
		cfg.Filter.ExcludePrefixes = o.excludePrefixes
	}
	if flags.Changed("comment-prefix") {
		cfg.CommentPrefix = o.commentPrefix
	}
	if flags.Changed("file-separator") {
		separator := o.fileSeparator
		cfg.FileSeparator = &separator
	}
	if flags.Changed("file-suffix") {
		suffix := o.fileSuffix
		cfg.FileSuffix = &suffix
	}
	if flags.Changed("include-hidden") {
		cfg.IncludeHidden = o.includeHidden
	}
	if flags.Changed("layers") {
		cfg.Layers = splitCommaList(o.layers)
	}
	if flags.Changed("fallback-layer") {
		cfg.FallbackLayer = o.fallbackLayer
	}
}

func resolveConfig(cmd *cobra.Command, opts *generateOptions) (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := loadProjectConfig(wd)
	if err != nil {
		return config.Config{}, err
	}
	opts.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	if cfg.Output == "" && !opts.dryRun {
		return errors.New("no output path configured; pass --output or set output in topcat.toml")
	}

	files := newScanner(cfg).Files()
	slog.Debug("scanned input directories", "dirs", cfg.InputDirs, "files", len(files))

	nodes, err := collectNodes(cfg, files)
	if err != nil {
		return err
	}
	g, err := assembleGraph(cfg, nodes)
	if err != nil {
		return err
	}
	slog.Info("graph built", "nodes", g.Len())

	sel, err := buildSelection(g, cfg, opts.subdirFilter)
	if err != nil {
		return err
	}
	ordered, err := g.Ordered(sel)
	if err != nil {
		return err
	}
	contents, err := readContents(ordered)
	if err != nil {
		return err
	}
	doc := output.Assemble(contents, output.Options{
		Separator: cfg.Separator(),
		Suffix:    cfg.Suffix(),
	})

	if opts.dryRun {
		_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	}
	if err := output.Write(cfg.Output, doc); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	slog.Info("output written", "path", cfg.Output, "files", len(ordered))
	return nil
}
