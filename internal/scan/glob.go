package scan

import (
	"path"
	"path/filepath"
	"strings"
)

// Match reports whether the glob pattern matches the given file path.
// Both sides are cleaned and compared segment by segment with the
// usual glob syntax, plus one addition over path.Match: a ** segment
// matches any number of path segments, including none. Invalid
// patterns match nothing.
func Match(pattern, file string) bool {
	return matchSegments(splitClean(pattern), splitClean(file))
}

func matchesAny(patterns []string, file string) bool {
	for _, pattern := range patterns {
		if Match(pattern, file) {
			return true
		}
	}
	return false
}

func splitClean(s string) []string {
	s = path.Clean(filepath.ToSlash(s))
	if s == "." {
		return nil
	}
	return strings.Split(s, "/")
}

func matchSegments(pattern, segs []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			if matchSegments(pattern[1:], segs) {
				return true
			}
			if len(segs) == 0 {
				return false
			}
			segs = segs[1:]
			continue
		}
		if len(segs) == 0 {
			return false
		}
		ok, err := path.Match(pattern[0], segs[0])
		if err != nil || !ok {
			return false
		}
		pattern = pattern[1:]
		segs = segs[1:]
	}
	return len(segs) == 0
}
