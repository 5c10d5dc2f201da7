package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// FileName is the project file topcat looks for.
const FileName = "topcat.toml"

// Config captures the project settings stored in topcat.toml.
type Config struct {
	InputDirs     []string    `toml:"input_dirs"`
	Output        string      `toml:"output"`
	CommentPrefix string      `toml:"comment_prefix"`
	FileSeparator *string     `toml:"file_separator"`
	FileSuffix    *string     `toml:"file_suffix"`
	IncludeHidden bool        `toml:"include_hidden"`
	Layers        []string    `toml:"layers"`
	FallbackLayer string      `toml:"fallback_layer"`
	Filter        FilterBlock `toml:"filter"`
}

// FilterBlock narrows which files and nodes take part in the output.
type FilterBlock struct {
	IncludeExts     []string `toml:"include_exts"`
	ExcludeExts     []string `toml:"exclude_exts"`
	IncludeGlobs    []string `toml:"include_globs"`
	ExcludeGlobs    []string `toml:"exclude_globs"`
	IncludePrefixes []string `toml:"include_prefixes"`
	ExcludePrefixes []string `toml:"exclude_prefixes"`
}

var (
	// ErrFallbackLayer indicates fallback_layer names no configured layer.
	ErrFallbackLayer = errors.New("config.fallback_layer must be one of config.layers")
	// ErrDuplicateLayer indicates config.layers repeats a name.
	ErrDuplicateLayer = errors.New("config.layers must not repeat layer names")
	// ErrEmptyLayer indicates config.layers contains an empty name.
	ErrEmptyLayer = errors.New("config.layers must not contain empty names")
	// ErrCommentPrefix indicates an empty comment prefix.
	ErrCommentPrefix = errors.New("config.comment_prefix must not be empty")
	// ErrNotFound indicates topcat.toml could not be discovered.
	ErrNotFound = errors.New("run `topcat init` to create a project in this directory")
)

var defaultLayers = []string{"prepend", "normal", "append"}

var defaultSeparator = strings.Repeat("-", 120)

// Separator returns the line placed between concatenated files.
func (c Config) Separator() string {
	if c.FileSeparator == nil {
		return defaultSeparator
	}
	return *c.FileSeparator
}

// Suffix returns the string every concatenated file must end with. An
// explicit empty value disables the suffix.
func (c Config) Suffix() string {
	if c.FileSuffix == nil {
		return ";"
	}
	return *c.FileSuffix
}

// Default returns a baseline configuration for a project.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.CommentPrefix == "" {
		c.CommentPrefix = "--"
	}
	if len(c.Layers) == 0 {
		c.Layers = append([]string(nil), defaultLayers...)
	}
	if c.FallbackLayer == "" {
		c.FallbackLayer = "normal"
	}
}

// Validate ensures the configuration can drive a build.
func (c Config) Validate() error {
	if c.CommentPrefix == "" {
		return ErrCommentPrefix
	}
	seen := make(map[string]bool, len(c.Layers))
	for _, layer := range c.Layers {
		if layer == "" {
			return ErrEmptyLayer
		}
		if seen[layer] {
			return ErrDuplicateLayer
		}
		seen[layer] = true
	}
	if !seen[c.FallbackLayer] {
		return ErrFallbackLayer
	}
	return nil
}

// Rebase resolves the config's relative paths against base, so a
// project file behaves the same no matter where topcat runs from.
func (c *Config) Rebase(base string) {
	for i, dir := range c.InputDirs {
		c.InputDirs[i] = rebasePath(base, dir)
	}
	if c.Output != "" {
		c.Output = rebasePath(base, c.Output)
	}
	c.Filter.IncludeGlobs = rebaseAll(base, c.Filter.IncludeGlobs)
	c.Filter.ExcludeGlobs = rebaseAll(base, c.Filter.ExcludeGlobs)
}

func rebasePath(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func rebaseAll(base string, paths []string) []string {
	for i, path := range paths {
		paths[i] = rebasePath(base, path)
	}
	return paths
}

// Load reads configuration from disk. Missing files return a default
// config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Save writes configuration to disk, creating parent directories as
// needed.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Discover walks upward from start until it finds a topcat.toml,
// returning its path.
func Discover(start string) (string, error) {
	cur, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(cur, FileName)
		if isFile(candidate) {
			return candidate, nil
		}
		next := filepath.Dir(cur)
		if next == cur {
			break
		}
		cur = next
	}
	return "", ErrNotFound
}

// Init writes a baseline topcat.toml under dir unless one already
// exists. It reports the config path and whether it was created.
func Init(dir string) (string, bool, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", false, err
	}
	if err := Save(path, Default()); err != nil {
		return "", false, err
	}
	return path, true, nil
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular()
}
