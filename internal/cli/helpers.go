package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

func isWithin(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || !strings.HasPrefix(rel, "..")
}

// canonicalPath resolves path to an absolute path with symlinks
// evaluated, so that paths under an input directory and a subdirectory
// filter compare equal regardless of how either was spelled.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// displayPath renders path relative to base when it lies beneath it.
func displayPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// splitCommaList parses a comma-separated flag value, trimming
// whitespace and dropping empty items.
func splitCommaList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func currentTimeOverride() time.Time {
	if override := os.Getenv("TOPCAT_NOW"); override != "" {
		if t, err := time.Parse(time.RFC3339, override); err == nil {
			return t
		}
	}
	return time.Now()
}
