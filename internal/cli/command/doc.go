// Package command provides CLI command definitions for vfsnap.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, backend resolution
//   - fs.go: Filesystem subcommand group (ls, cat, write, ...)
//   - snapshot.go: Snapshot subcommand group (create, restore, ...)
//   - config.go: CLI configuration subcommand group
//   - repl.go: Interactive shell entry point
//
// Commands follow a consistent pattern: validate arguments, resolve the
// backend environment, call the filesystem or snapshot manager, and
// format output. The CLI operates directly on a configured backend; no
// server is involved.
package command
