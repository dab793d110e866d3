// Package log is a context wrapper around slog.Logger
package log

import (
	"context"
	stdlog "log"
	"os"
	"runtime/debug"
	"testing"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"cdr.dev/slog/sloggers/slogtest"

	"github.com/tdewolff/sweepline"
)

var _default = slog.Make(sloghuman.Sink(os.Stderr)).Named("default")

type loggerKey struct{}

func from(ctx context.Context) slog.Logger {
	l, ok := ctx.Value(loggerKey{}).(slog.Logger)
	if !ok {
		_default.Warn(ctx, "missing slog.Logger in context, see internal/log.With", slog.F("stack", string(debug.Stack())))
		return _default
	}
	return l
}

func With(ctx context.Context, l slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// WithTB calls With with the result of slogtest.Make.
func WithTB(ctx context.Context, t testing.TB, opts *slogtest.Options) context.Context {
	return With(ctx, slogtest.Make(t, opts).Leveled(slog.LevelDebug))
}

func Debug(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	from(ctx).Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	from(ctx).Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	from(ctx).Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	from(ctx).Error(ctx, msg, fields...)
}

func Named(ctx context.Context, name string) context.Context {
	return With(ctx, from(ctx).Named(name))
}

func Sync(ctx context.Context) {
	from(ctx).Sync()
}

// Stderr returns a context with a human readable logger to stderr, which logs debug messages if verbose is set.
func Stderr(ctx context.Context, verbose bool) context.Context {
	l := slog.Make(sloghuman.Sink(os.Stderr))
	if verbose || os.Getenv("DEBUG") == "1" {
		l = l.Leveled(slog.LevelDebug)
	}

	sl := slog.Stdlib(ctx, l, slog.LevelInfo)
	stdlog.SetOutput(sl.Writer())

	return With(ctx, l)
}

// Reporter logs every sweep step as a debug message.
type Reporter struct {
	ctx context.Context
}

// NewReporter returns a sweep reporter that logs to the logger in ctx.
func NewReporter(ctx context.Context) *Reporter {
	return &Reporter{ctx}
}

func (r *Reporter) Report(step sweepline.Step) {
	slog.Helper()
	fields := []slog.Field{
		slog.F("point", step.Point.String()),
		slog.F("events", len(step.Events)),
		slog.F("status", step.Status),
	}
	if 0 < len(step.Intersections) {
		fields = append(fields, slog.F("intersections", len(step.Intersections)))
	}
	Debug(r.ctx, "sweep step", fields...)
}
