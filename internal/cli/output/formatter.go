// Package output provides output formatting for vfsnap CLI.
package output

import "io"

// Format names an output format selectable with --output.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formatter renders command results to a writer.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for format. Anything unrecognized
// falls back to the table formatter, the human-facing default.
func NewFormatter(format Format, wide bool) Formatter {
	if format == FormatJSON {
		return &JSONFormatter{}
	}
	return &TableFormatter{Wide: wide}
}
