package node

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func defaultParser() *Parser {
	return &Parser{
		CommentPrefix: "--",
		Layers:        []string{"first", "second", "third"},
		FallbackLayer: "second",
	}
}

func TestParseFileLayerHeader(t *testing.T) {
	p := defaultParser()
	path := writeFixture(t, "node.sql", "-- name: test_node\n-- layer: first\nSELECT 1;\n")

	n, err := p.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n.Name != "test_node" {
		t.Errorf("Name = %q, want %q", n.Name, "test_node")
	}
	if n.Layer != "first" {
		t.Errorf("Layer = %q, want %q", n.Layer, "first")
	}
}

func TestParseFileLegacyLayerHeaders(t *testing.T) {
	p := &Parser{
		CommentPrefix: "--",
		Layers:        []string{"prepend", "normal", "append"},
		FallbackLayer: "normal",
	}

	cases := []struct {
		name   string
		header string
		layer  string
	}{
		{"initial", "-- name: a\n-- is_initial\n", "prepend"},
		{"final", "-- name: a\n-- is_final\n", "append"},
		{"none", "-- name: a\n", "normal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFixture(t, "node.sql", tc.header+"SELECT 1;\n")
			n, err := p.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if n.Layer != tc.layer {
				t.Errorf("Layer = %q, want %q", n.Layer, tc.layer)
			}
		})
	}
}

func TestParseFileFallbackLayer(t *testing.T) {
	p := defaultParser()
	path := writeFixture(t, "node.sql", "-- name: test_node\nSELECT 1;\n")

	n, err := p.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n.Layer != "second" {
		t.Errorf("Layer = %q, want %q", n.Layer, "second")
	}
}

func TestParseFileEmptyLayerValueKeepsFallback(t *testing.T) {
	p := defaultParser()
	path := writeFixture(t, "node.sql", "-- name: test_node\n-- layer:\nSELECT 1;\n")

	n, err := p.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n.Layer != "second" {
		t.Errorf("Layer = %q, want %q", n.Layer, "second")
	}
}

func TestParseFileInvalidLayer(t *testing.T) {
	p := defaultParser()
	path := writeFixture(t, "node.sql", "-- name: test_node\n-- layer: basement\nSELECT 1;\n")

	_, err := p.ParseFile(path)
	var headerErr *HeaderError
	if !errors.As(err, &headerErr) {
		t.Fatalf("err = %v, want HeaderError", err)
	}
	if !strings.Contains(headerErr.Detail, "basement") {
		t.Errorf("Detail = %q, want mention of the bad layer", headerErr.Detail)
	}
}

func TestParseFileDependencies(t *testing.T) {
	p := defaultParser()

	cases := []struct {
		name     string
		header   string
		requires []string
	}{
		{
			"commas",
			"-- name: n\n-- requires: dep1, dep2\n",
			[]string{"dep1", "dep2"},
		},
		{
			"spaces",
			"-- name: n\n-- requires: dep1 dep2\n",
			[]string{"dep1", "dep2"},
		},
		{
			"repeated directive",
			"-- name: n\n-- requires: dep1\n-- requires: dep2\n",
			[]string{"dep1", "dep2"},
		},
		{
			"dropped_by merges",
			"-- name: n\n-- requires: dep1\n-- dropped_by: dep2\n",
			[]string{"dep1", "dep2"},
		},
		{
			"duplicates collapse",
			"-- name: n\n-- requires: dep1, dep1\n-- dropped_by: dep1\n",
			[]string{"dep1"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFixture(t, "node.sql", tc.header+"SELECT 1;\n")
			n, err := p.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(n.Requires, tc.requires) {
				t.Errorf("Requires = %v, want %v", n.Requires, tc.requires)
			}
		})
	}
}

func TestParseFileExists(t *testing.T) {
	p := defaultParser()
	path := writeFixture(t, "node.sql", "-- name: n\n-- exists: other, another\nSELECT 1;\n")

	n, err := p.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"another", "other"}
	if !reflect.DeepEqual(n.Exists, want) {
		t.Errorf("Exists = %v, want %v", n.Exists, want)
	}
}

func TestParseFileNoName(t *testing.T) {
	p := defaultParser()
	path := writeFixture(t, "node.sql", "-- layer: first\nSELECT 1;\n")

	_, err := p.ParseFile(path)
	if !errors.Is(err, ErrNoName) {
		t.Fatalf("err = %v, want ErrNoName", err)
	}
}

func TestParseFileTooManyNames(t *testing.T) {
	p := defaultParser()
	path := writeFixture(t, "node.sql", "-- name: one\n-- name: two\nSELECT 1;\n")

	_, err := p.ParseFile(path)
	var headerErr *HeaderError
	if !errors.As(err, &headerErr) {
		t.Fatalf("err = %v, want HeaderError", err)
	}
	if !strings.Contains(headerErr.Detail, "one") || !strings.Contains(headerErr.Detail, "two") {
		t.Errorf("Detail = %q, want both declared names", headerErr.Detail)
	}
}

func TestParseFileHeaderEndsAtFirstCodeLine(t *testing.T) {
	p := defaultParser()
	path := writeFixture(t, "node.sql", "SELECT 1;\n-- name: late\n")

	_, err := p.ParseFile(path)
	if !errors.Is(err, ErrNoName) {
		t.Fatalf("err = %v, want ErrNoName", err)
	}
}

func TestParseFileBlankLinesInsideHeader(t *testing.T) {
	p := defaultParser()
	path := writeFixture(t, "node.sql", "-- name: n\n\n-- layer: third\nSELECT 1;\n")

	n, err := p.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n.Layer != "third" {
		t.Errorf("Layer = %q, want %q", n.Layer, "third")
	}
}

func TestParseFileDirectivesAreCaseInsensitive(t *testing.T) {
	p := defaultParser()
	path := writeFixture(t, "node.sql", "-- Name: Mixed_Case\n-- Layer: FIRST\nSELECT 1;\n")

	n, err := p.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n.Name != "mixed_case" {
		t.Errorf("Name = %q, want %q", n.Name, "mixed_case")
	}
	if n.Layer != "first" {
		t.Errorf("Layer = %q, want %q", n.Layer, "first")
	}
}

func TestParseFileMissing(t *testing.T) {
	p := defaultParser()
	_, err := p.ParseFile(filepath.Join(t.TempDir(), "absent.sql"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
