package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"nonsense", slog.LevelInfo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseLevel(tc.name); got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo))

	logger.Info("building graph", "nodes", 3)
	want := "info: building graph nodes=3\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo))

	logger.Debug("noise")
	if got := buf.String(); got != "" {
		t.Errorf("output = %q, want suppressed debug line", got)
	}

	logger.Warn("scan issue", "dir", "sql")
	if got := buf.String(); !strings.HasPrefix(got, "warn: scan issue") {
		t.Errorf("output = %q, want warn line", got)
	}
}

func TestHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo)).With("cmd", "generate")

	logger.Info("done", "files", 2)
	want := "info: done cmd=generate files=2\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
