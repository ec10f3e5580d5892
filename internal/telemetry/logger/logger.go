// Package logger provides structured logging for vfsnap.
//
// It wraps the standard library log/slog to provide structured JSON
// logging with dynamic level adjustment and context-aware request IDs.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Format is the output format (json, text).
	Format string
	// Output is the output writer (defaults to os.Stderr).
	Output io.Writer
	// AddSource adds source file information to log entries.
	AddSource bool
}

// DefaultConfig returns a default logger configuration. Output goes to
// stderr so that a server speaking a protocol on stdout never mixes the
// two streams.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

// levelVar is the process-wide log level. Every logger built by New
// shares it, which is what lets a config reload retune running loggers.
var levelVar = new(slog.LevelVar)

// levelNames maps accepted level spellings to slog levels.
var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// levelFromString parses a level name; unknown names mean info.
func levelFromString(s string) slog.Level {
	if lvl, ok := levelNames[strings.ToLower(s)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// New creates a logger from cfg.
func New(cfg Config) (Logger, error) {
	levelVar.Set(levelFromString(cfg.Level))

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     levelVar,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text", "console":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	return &slogAdapter{logger: slog.New(handler), ctx: context.Background()}, nil
}

// SetLevel retunes the shared level at runtime (config reload).
func SetLevel(level string) {
	levelVar.Set(levelFromString(level))
}

// GetLevel reports the current shared level.
func GetLevel() string {
	switch levelVar.Level() {
	case slog.LevelDebug:
		return "debug"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "error"
	default:
		return "info"
	}
}

// Slog returns the underlying *slog.Logger for components that take the
// standard library logger directly (vfs backends, the snapshot manager).
// For loggers not created by this package it falls back to slog.Default().
func Slog(l Logger) *slog.Logger {
	if a, ok := l.(*slogAdapter); ok {
		return a.logger
	}
	return slog.Default()
}

// slogAdapter implements Logger over a slog.Logger, carrying the context
// WithContext attached so request IDs reach the handler.
type slogAdapter struct {
	logger *slog.Logger
	ctx    context.Context
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.logger.DebugContext(a.ctx, msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.InfoContext(a.ctx, msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.WarnContext(a.ctx, msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.ErrorContext(a.ctx, msg, args...) }

func (a *slogAdapter) With(args ...any) Logger {
	return &slogAdapter{logger: a.logger.With(args...), ctx: a.ctx}
}

func (a *slogAdapter) WithContext(ctx context.Context) Logger {
	return &slogAdapter{logger: a.logger, ctx: ctx}
}

// pkgDefault backs the package-level logging functions.
var pkgDefault atomic.Pointer[slogAdapter]

func init() {
	l, _ := New(DefaultConfig())
	pkgDefault.Store(l.(*slogAdapter))
}

// SetDefault replaces the package-level logger.
func SetDefault(l Logger) {
	if a, ok := l.(*slogAdapter); ok {
		pkgDefault.Store(a)
	}
}

// Default returns the package-level logger.
func Default() Logger {
	return pkgDefault.Load()
}

// Debug logs at debug level using the package-level logger.
func Debug(msg string, args ...any) { pkgDefault.Load().Debug(msg, args...) }

// Info logs at info level using the package-level logger.
func Info(msg string, args ...any) { pkgDefault.Load().Info(msg, args...) }

// Warn logs at warn level using the package-level logger.
func Warn(msg string, args ...any) { pkgDefault.Load().Warn(msg, args...) }

// Error logs at error level using the package-level logger.
func Error(msg string, args ...any) { pkgDefault.Load().Error(msg, args...) }
