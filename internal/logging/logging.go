package logging

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// New builds a *slog.Logger that writes level-colored lines to w. Color
// is emitted unless color.NoColor is set (fatih/color already detects a
// non-terminal destination and the NO_COLOR environment variable at
// package init; callers running under --no-color can set color.NoColor
// themselves before calling New).
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(newColorHandler(w, level))
}

// Quiet returns a logger that drops everything below warning, for
// --quiet CLI invocations.
func Quiet(w io.Writer) *slog.Logger {
	return New(w, slog.LevelWarn)
}

// Verbose returns a logger that includes debug records, for --debug CLI
// invocations.
func Verbose(w io.Writer) *slog.Logger {
	return New(w, slog.LevelDebug)
}

// Progress logs one line reporting how far a long-running stage (the
// seeding sweep, the local-search round loop, the Monte Carlo
// permutation pass) has gotten: done/total rendered with thousands
// separators and a humanized "started N ago" marker, without
// hand-rolling duration arithmetic.
func Progress(logger *slog.Logger, label string, done, total int, startedAt time.Time) {
	pct := 0.0
	if total > 0 {
		pct = 100 * float64(done) / float64(total)
	}
	logger.Info(label,
		"done", humanize.Comma(int64(done)),
		"total", humanize.Comma(int64(total)),
		"pct", fmt.Sprintf("%.1f%%", pct),
		"started", humanize.Time(startedAt),
	)
}

// Success logs a completed-stage line at Info level, with the message
// rendered in bold green to set it apart from a plain informational line.
func Success(logger *slog.Logger, msg string, args ...any) {
	logger.Info(color.New(color.FgGreen, color.Bold).Sprint(msg), args...)
}
