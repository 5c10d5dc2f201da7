// Package output joins file contents into the final artifact and
// writes it without ever leaving a half-written file behind.
package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// Options control how file contents are joined.
type Options struct {
	// Separator is placed on its own line between files, surrounded
	// by blank lines.
	Separator string
	// Suffix is appended to a file's trimmed content unless the
	// content already ends with it.
	Suffix string
}

// Assemble joins the contents in order. Each file is trimmed of
// trailing whitespace and given the suffix; the result ends with a
// single newline. No contents yield an empty artifact.
func Assemble(contents []string, opts Options) string {
	if len(contents) == 0 {
		return ""
	}
	parts := make([]string, 0, len(contents))
	for _, content := range contents {
		text := strings.TrimRight(content, " \t\r\n")
		if opts.Suffix != "" && !strings.HasSuffix(text, opts.Suffix) {
			text += opts.Suffix
		}
		parts = append(parts, text)
	}
	joiner := "\n\n" + opts.Separator + "\n\n"
	return strings.Join(parts, joiner) + "\n"
}

// Write replaces the file at path with data via a temporary file and
// rename, so readers never observe a partial artifact. Missing parent
// directories are created.
func Write(path, data string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return atomic.WriteFile(path, strings.NewReader(data))
}
