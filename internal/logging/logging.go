// Package logging configures the process-wide slog logger that topcat
// writes diagnostics to.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ParseLevel maps a level name to its slog.Level. Unknown names fall
// back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs a handler writing to w as the slog default.
func Setup(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(w, level)))
}

var (
	colorDebug = color.New(color.FgHiBlack).SprintFunc()
	colorInfo  = color.New(color.FgGreen).SprintFunc()
	colorWarn  = color.New(color.FgYellow).SprintFunc()
	colorError = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Handler renders records as single "level: message key=value" lines,
// coloring the level when the writer is a terminal.
type Handler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Level
	color bool
	attrs []slog.Attr
}

// NewHandler returns a Handler writing to w at the given level.
func NewHandler(w io.Writer, level slog.Level) *Handler {
	return &Handler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
		color: writerIsTerminal(w),
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(h.levelLabel(r.Level))
	b.WriteString(": ")
	b.WriteString(r.Message)
	for _, attr := range h.attrs {
		writeAttr(&b, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		writeAttr(&b, attr)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup flattens groups; topcat does not use them.
func (h *Handler) WithGroup(string) slog.Handler {
	return h
}

func writeAttr(b *strings.Builder, attr slog.Attr) {
	fmt.Fprintf(b, " %s=%v", attr.Key, attr.Value)
}

func (h *Handler) levelLabel(level slog.Level) string {
	label := levelName(level)
	if !h.color {
		return label
	}
	switch {
	case level >= slog.LevelError:
		return colorError(label)
	case level >= slog.LevelWarn:
		return colorWarn(label)
	case level >= slog.LevelInfo:
		return colorInfo(label)
	default:
		return colorDebug(label)
	}
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
