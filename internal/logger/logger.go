package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Options selects how chatty the CLI is. Debug wins over Verbose.
type Options struct {
	Debug   bool
	Verbose bool
}

func (o Options) level() slog.Level {
	switch {
	case o.Debug:
		return slog.LevelDebug
	case o.Verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// Initialize installs the pretty handler as the default logger on stderr.
func Initialize(opts Options) {
	Install(os.Stderr, opts)
}

func Install(w io.Writer, opts Options) {
	h := NewPrettyHandler(w, &slog.HandlerOptions{
		Level:     opts.level(),
		AddSource: opts.Debug,
	})
	slog.SetDefault(slog.New(h))
}

// WithRun tags every record logged through ctx with a fresh run_id and the repository.
func WithRun(ctx context.Context, repo string) (context.Context, string) {
	runID := uuid.NewString()
	return With(ctx, "run_id", runID, "repo", repo), runID
}

// Track logs the start of op and returns a func that logs its outcome with duration_ms.
func Track(ctx context.Context, op string, args ...any) func(err error, args ...any) {
	start := time.Now()
	Info(ctx, op+" started", args...)
	return func(err error, more ...any) {
		more = append(more, "duration_ms", time.Since(start).Milliseconds())
		if err != nil {
			Error(ctx, op+" failed", err, more...)
			return
		}
		Info(ctx, op+" finished", more...)
	}
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func With(ctx context.Context, args ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(args...))
}

func Debug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

// Error appends err under the "error" key, when set.
func Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.Any("error", err))
	}
	FromContext(ctx).Error(msg, args...)
}
