// Package main provides the entry point for vfsnap-cli.
//
// The CLI tool provides command-line access to a vfsnap backend for:
//
//   - Filesystem operations (ls, cat, write, mkdir, rm, cp, mv, find)
//   - Snapshot management (create, restore, list, export, import)
//   - Configuration management
//
// Usage:
//
//	vfsnap-cli [command] [flags]
//	vfsnap-cli fs ls /
//	vfsnap-cli --provider memory repl
//
// Unlike vfsnap-server, the CLI talks to the storage backend directly;
// no server process is involved. It supports both single-command mode
// and interactive REPL mode.
package main
