package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// With attaches a logger carrying the extra fields to the context. Middleware
// stamps the trace id once; every downstream log line picks it up via From.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, contextKey{}, From(ctx).With(fields...))
}

// From returns the context's logger, falling back to the process-wide one.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
