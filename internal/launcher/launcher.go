// Package launcher locates the companion topcat executable and hands
// control to it.
package launcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/topcat-io/topcat/internal/scheme"
)

// Target is the base name of the companion executable.
const Target = "topcat"

// NotFoundError reports that no candidate path held the target
// executable. Path is the last location checked.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("topcat executable not found at %s", e.Path)
}

// Resolve returns the path of the target executable under p's schemes.
// The default scheme wins and short-circuits; the preferred user
// scheme is the fallback. A failure to determine the default scheme's
// directory counts as a miss, while one for the user scheme is fatal.
func Resolve(p scheme.Provider) (string, error) {
	name := Target + p.ExecSuffix()

	if dir, err := p.ScriptsDir(scheme.Default); err == nil {
		candidate := filepath.Join(dir, name)
		if isRegularFile(candidate) {
			return candidate, nil
		}
	}

	dir, err := p.ScriptsDir(p.PreferredUserScheme())
	if err != nil {
		return "", err
	}
	candidate := filepath.Join(dir, name)
	if isRegularFile(candidate) {
		return candidate, nil
	}
	return "", &NotFoundError{Path: candidate}
}

func isRegularFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
