package output

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAssemble(t *testing.T) {
	opts := Options{Separator: "---", Suffix: ";"}

	cases := []struct {
		name     string
		contents []string
		want     string
	}{
		{
			"empty input",
			nil,
			"",
		},
		{
			"single file gains suffix",
			[]string{"SELECT 1"},
			"SELECT 1;\n",
		},
		{
			"existing suffix is kept",
			[]string{"SELECT 1;"},
			"SELECT 1;\n",
		},
		{
			"trailing whitespace is trimmed",
			[]string{"SELECT 1;   \n\n"},
			"SELECT 1;\n",
		},
		{
			"files are separated",
			[]string{"SELECT 1;", "SELECT 2;"},
			"SELECT 1;\n\n---\n\nSELECT 2;\n",
		},
		{
			"empty file becomes bare suffix",
			[]string{""},
			";\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Assemble(tc.contents, opts); got != tc.want {
				t.Errorf("Assemble = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAssembleWithoutSuffix(t *testing.T) {
	got := Assemble([]string{"a", "b"}, Options{Separator: "==="})
	want := "a\n\n===\n\nb\n"
	if got != want {
		t.Errorf("Assemble = %q, want %q", got, want)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sql")
	if err := Write(path, "SELECT 1;\n"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "SELECT 1;\n" {
		t.Errorf("file content = %q, want %q", data, "SELECT 1;\n")
	}
}

func TestWriteCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build", "nested", "out.sql")
	if err := Write(path, "SELECT 1;\n"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "SELECT 1;\n" {
		t.Errorf("file content = %q, want %q", data, "SELECT 1;\n")
	}
}

func TestWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sql")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, "new\n"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new\n" {
		t.Errorf("file content = %q, want %q", data, "new\n")
	}
}
