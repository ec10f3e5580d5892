// Package repl provides interactive mode for vfsnap-cli.
//
// This package implements the Read-Eval-Print Loop for interactive
// sessions:
//
//   - repl.go: Main loop, line tokenizing and command dispatch
//   - completer.go: Prefix completion over the command set
//   - history.go: In-memory command history
//
// The loop itself handles the exit, quit and history builtins; every
// other line is tokenized (quotes group words) and handed to the Execute
// callback, which the command layer wires to a cli.App sharing one
// backend across the whole session. Unknown commands get prefix-based
// suggestions instead of a dispatch error.
package repl
