// Package log wraps log/slog with trace IDs and fields carried in the request context.
package log

import (
	"context"
	"io"
	"log/slog"
	"sort"
)

// Setup builds the process logger: text output while developing, JSON in release mode.
func Setup(w io.Writer, level string, json bool) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// WithContext returns the default logger annotated with the trace ID and fields in ctx.
func WithContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if traceID := TraceID(ctx); traceID != "" {
		logger = logger.With("trace_id", traceID)
	}

	fields := GetLogFields(ctx)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logger = logger.With(k, fields[k])
	}

	return logger
}

// Info logs at Info level with the trace ID and fields from ctx.
func Info(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Info(msg, args...)
}

// Error logs at Error level with the trace ID and fields from ctx.
func Error(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Error(msg, args...)
}

// Warn logs at Warn level with the trace ID and fields from ctx.
func Warn(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Warn(msg, args...)
}

// Debug logs at Debug level with the trace ID and fields from ctx.
func Debug(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Debug(msg, args...)
}
