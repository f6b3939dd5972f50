// Package logging implements the structured logging ambient concern
// (SPEC_FULL §2): a log/slog handler that color-codes level labels for
// terminal output, plus a progress-line helper for the long-running
// seeding/search loops.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// colorHandler is a slog.Handler that writes one colorized line per
// record: "HH:MM:SS LEVEL message key=value ...".
type colorHandler struct {
	w        io.Writer
	minLevel slog.Level
	mu       *sync.Mutex
	attrs    []slog.Attr
}

// newColorHandler builds a colorHandler writing to w, dropping records
// below minLevel.
func newColorHandler(w io.Writer, minLevel slog.Level) *colorHandler {
	return &colorHandler{w: w, minLevel: minLevel, mu: &sync.Mutex{}}
}

func levelColor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return color.New(color.FgRed, color.Bold)
	case level >= slog.LevelWarn:
		return color.New(color.FgYellow)
	case level >= slog.LevelInfo:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgHiBlack)
	}
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	var line strings.Builder
	line.WriteString(r.Time.Format("15:04:05"))
	line.WriteByte(' ')
	line.WriteString(levelColor(r.Level).Sprint(r.Level.String()))
	line.WriteByte(' ')
	line.WriteString(r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&line, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&line, " %s=%v", a.Key, a.Value)
		return true
	})
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line.String())
	return err
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &colorHandler{w: h.w, minLevel: h.minLevel, mu: h.mu, attrs: merged}
}

// WithGroup is a no-op: progress/search logging never nests groups deep
// enough to need slog's group namespacing.
func (h *colorHandler) WithGroup(_ string) slog.Handler {
	return h
}
