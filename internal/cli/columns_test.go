package cli

import (
	"bytes"
	"testing"
)

func TestWriteColumns(t *testing.T) {
	var buf bytes.Buffer
	writeColumns(&buf, [][]string{
		{"NAME", "LAYER", "FILE"},
		{"users", "normal", "sql/users.sql"},
		{"audit_log", "append", "sql/audit.sql"},
	})
	want := "" +
		"NAME       LAYER   FILE\n" +
		"users      normal  sql/users.sql\n" +
		"audit_log  append  sql/audit.sql\n"
	if got := buf.String(); got != want {
		t.Fatalf("writeColumns output:\n%q\nwant:\n%q", got, want)
	}
}

func TestWriteColumnsPadsByDisplayWidth(t *testing.T) {
	var buf bytes.Buffer
	writeColumns(&buf, [][]string{
		{"データ", "1"},
		{"x", "2"},
	})
	want := "データ  1\nx       2\n"
	if got := buf.String(); got != want {
		t.Fatalf("writeColumns output:\n%q\nwant:\n%q", got, want)
	}
}

func TestWriteColumnsEmpty(t *testing.T) {
	var buf bytes.Buffer
	writeColumns(&buf, nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
