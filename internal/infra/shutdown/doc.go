// Package shutdown provides graceful shutdown for vfsnap.
//
// This package handles process termination:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Programmatic triggering (for stdio sessions that end on their own)
//   - Timeout-based forced shutdown
//   - Cleanup callback registration in reverse order
//
// Usage:
//
//	handler := shutdown.NewHandler(30 * time.Second)
//	handler.OnShutdown(func(ctx context.Context) error { return store.Close() })
//	// ... start servers ...
//	if err := handler.Wait(); err != nil { ... }
package shutdown
