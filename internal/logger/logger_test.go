package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("falls back to default logger", func(t *testing.T) {
		assert.Equal(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("returns stored logger", func(t *testing.T) {
		l := slog.New(NewPrettyHandler(&bytes.Buffer{}, nil))
		ctx := WithLogger(context.Background(), l)

		assert.Same(t, l, FromContext(ctx))
	})
}

func TestWithRun(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := WithLogger(context.Background(), l)

	ctx, runID := WithRun(ctx, "acme/widgets")
	Info(ctx, "release pr opened", "pr_number", 7)

	require.NotEmpty(t, runID)
	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "release pr opened")
	assert.Contains(t, out, "run_id="+runID[:8]+" repo=acme/widgets release pr opened")
	assert.Contains(t, out, "repo=acme/widgets")
	assert.Contains(t, out, "pr_number=7")
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, nil)

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
}

func TestPrettyHandler_Groups(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.WithGroup("pkg").Debug("skipped", "key", "packages/a")

	assert.Contains(t, buf.String(), "pkg.key=packages/a")
}

func TestPrettyHandler_AttrsBeforeGroupKeepTheirKey(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.With("strategy", "monorepo").WithGroup("pkg").Info("released", "version", "1.2.0")

	out := buf.String()
	assert.Contains(t, out, "strategy=monorepo")
	assert.NotContains(t, out, "pkg.strategy")
	assert.Contains(t, out, "pkg.version=1.2.0")
}

func TestPrettyHandler_FormatsReleaseAttrs(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.Info("commits collected",
		"since", "0123456789abcdef",
		slog.Group("pr", "number", 4, "sha", "fedcba9876543210"))

	out := buf.String()
	assert.Contains(t, out, "since=0123456")
	assert.Contains(t, out, "pr.number=4")
	assert.Contains(t, out, "pr.sha=fedcba9")
	assert.NotContains(t, out, "0123456789")
}

func TestTrack(t *testing.T) {
	color.NoColor = true

	t.Run("logs start and finish", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := WithLogger(context.Background(), slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

		done := Track(ctx, "release-pr", "dry_run", true)
		done(nil, "version", "1.2.0")

		out := buf.String()
		assert.Contains(t, out, "release-pr started dry_run=true")
		assert.Contains(t, out, "release-pr finished version=1.2.0 duration_ms=")
	})

	t.Run("logs failure with the error", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := WithLogger(context.Background(), slog.New(NewPrettyHandler(&buf, nil)))

		Track(ctx, "github-release")(errors.New("no tag"))

		out := buf.String()
		assert.NotContains(t, out, "started")
		assert.Contains(t, out, "[ERROR] github-release failed")
		assert.Contains(t, out, "error=no tag")
	})
}

func TestOptionsLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, Options{}.level())
	assert.Equal(t, slog.LevelInfo, Options{Verbose: true}.level())
	assert.Equal(t, slog.LevelDebug, Options{Debug: true, Verbose: true}.level())
}
