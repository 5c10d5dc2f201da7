// Package scan walks input directories and selects the files that
// take part in concatenation.
package scan

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner walks input directories and filters the files it finds.
// Extension values are compared against the lowercased file extension
// as given, and glob patterns are matched against the walked path, so
// relative input directories pair with relative patterns.
type Scanner struct {
	Dirs          []string
	IncludeHidden bool
	IncludeExts   []string
	ExcludeExts   []string
	IncludeGlobs  []string
	ExcludeGlobs  []string
}

// Files returns the matching files under every input directory,
// sorted by path. Missing directories yield nothing and unreadable
// ones are logged and skipped.
func (s *Scanner) Files() []string {
	set := make(map[string]bool)
	for _, dir := range s.Dirs {
		walk(dir, s.IncludeHidden, set)
	}

	files := make([]string, 0, len(set))
	for path := range set {
		if s.keep(path) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files
}

func walk(dir string, includeHidden bool, out map[string]bool) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	if !includeHidden && hiddenName(dir) {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Error("read dir failed", "dir", dir, "error", err)
		return
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			slog.Error("stat failed", "path", path, "error", err)
			continue
		}
		switch {
		case info.Mode().IsRegular():
			if !includeHidden && hiddenName(path) {
				continue
			}
			out[path] = true
		case info.IsDir():
			walk(path, includeHidden, out)
		}
	}
}

func hiddenName(path string) bool {
	base := filepath.Base(path)
	if base == "." || base == ".." {
		return false
	}
	return strings.HasPrefix(base, ".")
}

func (s *Scanner) keep(path string) bool {
	if len(s.IncludeExts) > 0 {
		ext, ok := extension(path)
		if !ok || !containsString(s.IncludeExts, ext) {
			slog.Debug("excluding file, extension not in include set", "path", path, "ext", ext)
			return false
		}
	}
	if len(s.ExcludeExts) > 0 {
		ext, ok := extension(path)
		if !ok {
			slog.Debug("excluding file without extension", "path", path)
			return false
		}
		if containsString(s.ExcludeExts, ext) {
			slog.Debug("excluding file, extension in exclude set", "path", path, "ext", ext)
			return false
		}
	}
	if len(s.IncludeGlobs) > 0 && !matchesAny(s.IncludeGlobs, path) {
		slog.Debug("excluding file, no include glob matches", "path", path)
		return false
	}
	if matchesAny(s.ExcludeGlobs, path) {
		slog.Debug("excluding file, exclude glob matches", "path", path)
		return false
	}
	return true
}

// extension returns the lowercased extension without its dot. A name
// whose only dot is its first character has no extension.
func extension(path string) (string, bool) {
	base := filepath.Base(path)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 {
		return "", false
	}
	return strings.ToLower(base[idx+1:]), true
}

func containsString(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
