// Package logging defines the structured-logging contract the server layers
// depend on. Code logs through Logger rather than a concrete backend; the
// bootstrap picks the implementation (slog today) and hands children down
// with component fields already attached.
package logging

import "context"

// Logger is a leveled, context-aware logger. Variadic args are alternating
// key-value pairs:
//
//	log.Info(ctx, "request completed", "status", 200, "path", r.URL.Path)
type Logger interface {
	// Debug logs fine-grained diagnostics, off in production by default.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs normal operational events: startup, shutdown, request outcomes.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but recoverable conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key-value pairs on
	// every record it emits.
	With(args ...any) Logger
}
