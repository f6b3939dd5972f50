package logging_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/logging"
)

func TestNewLoggerWritesLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo)

	logger.Info("seeding started", "routine", "RANDOM_CONNECTED")

	out := buf.String()
	require.Contains(t, out, "INFO")
	require.Contains(t, out, "seeding started")
	require.Contains(t, out, "routine=RANDOM_CONNECTED")
	require.True(t, strings.HasSuffix(out, "\n"))
}

func TestQuietLoggerDropsInfoRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Quiet(&buf)

	logger.Info("this should not appear")
	logger.Warn("this should appear")

	out := buf.String()
	require.NotContains(t, out, "this should not appear")
	require.Contains(t, out, "this should appear")
}

func TestVerboseLoggerIncludesDebugRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Verbose(&buf)

	logger.Debug("candidate rejected", "reason", "below MAF threshold")

	require.Contains(t, buf.String(), "candidate rejected")
}

func TestLoggerWithAttrsCarriesOverFields(t *testing.T) {
	var buf bytes.Buffer
	base := logging.New(&buf, slog.LevelInfo)
	scoped := base.With("network", "biogrid")

	scoped.Info("edge loaded")

	require.Contains(t, buf.String(), "network=biogrid")
}

func TestProgressReportsHumanizedCounts(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo)

	logging.Progress(logger, "local search round", 1500, 3000, time.Now().Add(-2*time.Hour))

	out := buf.String()
	require.Contains(t, out, "done=1,500")
	require.Contains(t, out, "total=3,000")
	require.Contains(t, out, "pct=50.0%")
	require.Contains(t, out, "started=")
}

func TestSuccessLogsAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo)

	logging.Success(logger, "search converged", "rounds", 42)

	out := buf.String()
	require.Contains(t, out, "search converged")
	require.Contains(t, out, "rounds=42")
}
