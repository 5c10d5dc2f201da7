package scan

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, file := range files {
		path := filepath.Join(root, filepath.FromSlash(file))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("content\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFilesWalk(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"file.txt",
		"subdir/subfile.txt",
		".hidden_file.txt",
		".hidden_subdir/inside.txt",
	)

	s := &Scanner{Dirs: []string{root}}
	want := []string{
		filepath.Join(root, "file.txt"),
		filepath.Join(root, "subdir/subfile.txt"),
	}
	if got := s.Files(); !reflect.DeepEqual(got, want) {
		t.Errorf("Files = %v, want %v", got, want)
	}

	s.IncludeHidden = true
	if got := s.Files(); len(got) != 4 {
		t.Errorf("Files with hidden = %v, want 4 entries", got)
	}
}

func TestFilesMissingDir(t *testing.T) {
	s := &Scanner{Dirs: []string{filepath.Join(t.TempDir(), "absent")}}
	if got := s.Files(); len(got) != 0 {
		t.Errorf("Files = %v, want none", got)
	}
}

func TestFilesHiddenInputDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, ".secret/file.txt")
	hidden := filepath.Join(root, ".secret")

	s := &Scanner{Dirs: []string{hidden}}
	if got := s.Files(); len(got) != 0 {
		t.Errorf("Files = %v, want none for hidden input dir", got)
	}

	s.IncludeHidden = true
	if got := s.Files(); len(got) != 1 {
		t.Errorf("Files with hidden = %v, want 1 entry", got)
	}
}

func TestFilesExtensionFilters(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.sql", "b.txt", "c.SQL", "noext")

	cases := []struct {
		name    string
		scanner Scanner
		want    []string
	}{
		{
			"include lowercases the file extension",
			Scanner{IncludeExts: []string{"sql"}},
			[]string{"a.sql", "c.SQL"},
		},
		{
			"include values are taken verbatim",
			Scanner{IncludeExts: []string{"SQL"}},
			nil,
		},
		{
			"exclude drops extensionless files too",
			Scanner{ExcludeExts: []string{"txt"}},
			[]string{"a.sql", "c.SQL"},
		},
		{
			"no filters keep everything",
			Scanner{},
			[]string{"a.sql", "b.txt", "c.SQL", "noext"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.scanner.Dirs = []string{root}
			var want []string
			for _, name := range tc.want {
				want = append(want, filepath.Join(root, name))
			}
			got := tc.scanner.Files()
			if len(got) == 0 && len(want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Files = %v, want %v", got, want)
			}
		})
	}
}

func TestFilesGlobFilters(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "sql/a.sql", "sql/sub/b.sql", "other/c.sql")

	s := &Scanner{
		Dirs:         []string{root},
		IncludeGlobs: []string{filepath.Join(root, "sql/**/*.sql")},
	}
	want := []string{
		filepath.Join(root, "sql/a.sql"),
		filepath.Join(root, "sql/sub/b.sql"),
	}
	if got := s.Files(); !reflect.DeepEqual(got, want) {
		t.Errorf("Files = %v, want %v", got, want)
	}

	s.ExcludeGlobs = []string{filepath.Join(root, "sql/sub/*")}
	want = want[:1]
	if got := s.Files(); !reflect.DeepEqual(got, want) {
		t.Errorf("Files = %v, want %v", got, want)
	}
}

func TestMatch(t *testing.T) {
	cases := []struct {
		pattern string
		file    string
		want    bool
	}{
		{"*.sql", "a.sql", true},
		{"*.sql", "d/a.sql", false},
		{"**/*.sql", "a.sql", true},
		{"**/*.sql", "d/sub/a.sql", true},
		{"d/**", "d/x/y.txt", true},
		{"d/**", "other/y.txt", false},
		{"a/*/c", "a/b/c", true},
		{"a/*/c", "a/b/b2/c", false},
		{"./x/*.txt", "x/f.txt", true},
		{"[bad", "bad", false},
	}
	for _, tc := range cases {
		t.Run(tc.pattern+" "+tc.file, func(t *testing.T) {
			if got := Match(tc.pattern, tc.file); got != tc.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tc.pattern, tc.file, got, tc.want)
			}
		})
	}
}
