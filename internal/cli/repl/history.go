// Package repl provides the interactive shell for vfsnap-cli.
package repl

// defaultHistorySize bounds the in-memory history.
const defaultHistorySize = 1000

// History keeps the commands entered during one interactive session.
// It lives in memory only and dies with the session.
type History struct {
	entries []string
	maxSize int
}

// NewHistory creates a new History instance.
func NewHistory() *History {
	return &History{
		entries: make([]string, 0),
		maxSize: defaultHistorySize,
	}
}

// Add appends a command, evicting the oldest entry when full.
func (h *History) Add(cmd string) {
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[1:]
	}
}

// Get returns the history entry at index (0 = most recent).
func (h *History) Get(index int) string {
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[len(h.entries)-1-index]
}

// All returns every entry, oldest first.
func (h *History) All() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports the number of stored entries.
func (h *History) Len() int {
	return len(h.entries)
}
