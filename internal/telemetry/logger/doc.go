// Package logger provides structured logging for vfsnap.
//
// The package wraps log/slog:
//
//   - logger.go: handler construction, dynamic level, package default
//   - context.go: context-aware logging with request IDs
//
// Features:
//
//   - JSON and text output formats
//   - Runtime log level adjustment through a shared LevelVar
//   - Context propagation for per-call request IDs
package logger
