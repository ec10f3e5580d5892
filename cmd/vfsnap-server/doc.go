// Package main provides the entry point for vfsnap-server.
//
// The server exposes a virtual filesystem and its snapshot engine over
// the Model Context Protocol:
//
//   - Fourteen MCP tools for filesystem and snapshot operations
//   - Pluggable storage backends: memory, local disk, Badger
//   - Prometheus metrics on a separate HTTP listener
//   - Hot reload of the log level on config file changes
//
// Usage:
//
//	vfsnap-server [flags]
//	vfsnap-server --config /path/to/config.yaml
//
// The server speaks MCP on stdin/stdout; all logging goes to stderr.
package main
