// Package output provides output formatting for vfsnap CLI.
package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter renders data as indented JSON, one document per call.
// It is the scripting-friendly counterpart to TableFormatter.
type JSONFormatter struct{}

// Format encodes data to w.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
