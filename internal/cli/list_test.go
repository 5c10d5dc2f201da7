package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/topcat-io/topcat/internal/config"
)

func TestRunListTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.FileName), "input_dirs = [\"sql\"]\noutput = \"out.sql\"\n")
	base := filepath.Join(dir, "sql", "base.sql")
	writeFile(t, base, "-- name: base\n-- layer: prepend\ncreate schema app;\n")
	users := filepath.Join(dir, "sql", "users.sql")
	writeFile(t, users, "-- name: users\n-- requires: base\ncreate table users();\n")

	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(base, now, now.Add(-72*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(users, now, now.Add(-30*time.Minute)); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOPCAT_NOW", now.Format(time.RFC3339))
	t.Chdir(dir)

	cmd := newListCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := runList(cmd, nil); err != nil {
		t.Fatalf("runList: %v", err)
	}

	want := "" +
		"NAME   LAYER    DEPS  AGE  FILE\n" +
		"base   prepend  0     3d   " + filepath.Join("sql", "base.sql") + "\n" +
		"users  normal   1     30m  " + filepath.Join("sql", "users.sql") + "\n"
	if got := out.String(); got != want {
		t.Fatalf("list output:\n%q\nwant:\n%q", got, want)
	}
}
