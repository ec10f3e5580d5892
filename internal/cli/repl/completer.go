// Package repl provides the interactive shell for vfsnap-cli.
package repl

import (
	"sort"
	"strings"
)

// Completer provides prefix completion over the known command lines.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the given command lines.
func NewCompleter(commands []string) *Completer {
	c := &Completer{commands: make([]string, len(commands))}
	copy(c.commands, commands)
	sort.Strings(c.commands)
	return c
}

// Complete returns the commands starting with prefix, in sorted order.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
