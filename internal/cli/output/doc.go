// Package output provides output formatting for vfsnap CLI.
//
// This package handles all CLI output formatting:
//
//   - formatter.go: Formatter interface and factory
//   - table.go: Table rendering with wide mode support
//   - json.go: JSON output formatting
//
// Formatters support:
//
//   - Table output for humans, indented JSON for scripting
//   - Wide mode for additional columns (table:"wide" struct tags)
//   - Reflection-based rendering of slices, maps and structs
package output
