// Package repl provides the interactive shell for vfsnap-cli.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultPrompt is printed before every input line.
const DefaultPrompt = "vfsnap> "

// Config wires a REPL to its surroundings.
type Config struct {
	// Input defaults to os.Stdin.
	Input io.Reader
	// Output defaults to os.Stdout.
	Output io.Writer
	// Prompt defaults to DefaultPrompt.
	Prompt string
	// Commands are the completable command lines ("fs ls", "snapshot
	// create", ...). Builtins are added automatically.
	Commands []string
	// Execute dispatches one tokenized command line.
	Execute func(args []string) error
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	execute   func(args []string) error
	completer *Completer
	history   *History
	known     map[string]bool
}

// builtins are handled by the loop itself, before dispatch.
var builtins = []string{"history", "exit", "quit"}

// New creates a new REPL instance.
func New(cfg Config) *REPL {
	if cfg.Input == nil {
		cfg.Input = os.Stdin
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}

	commands := append([]string{}, cfg.Commands...)
	commands = append(commands, builtins...)

	known := make(map[string]bool, len(commands))
	for _, cmd := range commands {
		if word, _, _ := strings.Cut(cmd, " "); word != "" {
			known[word] = true
		}
	}

	return &REPL{
		input:     cfg.Input,
		output:    cfg.Output,
		prompt:    cfg.Prompt,
		execute:   cfg.Execute,
		completer: NewCompleter(commands),
		history:   NewHistory(),
		known:     known,
	}
}

// Run starts the REPL loop. It returns when the input is exhausted or the
// user exits; command errors are printed, not returned.
func (r *REPL) Run() error {
	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.history.Add(line)

		switch line {
		case "exit", "quit":
			return nil
		case "history":
			r.printHistory()
			continue
		}

		args, err := splitLine(line)
		if err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
			continue
		}

		if !r.known[args[0]] {
			if suggestions := r.completer.Complete(args[0]); len(suggestions) > 0 {
				fmt.Fprintf(r.output, "Unknown command %q. Did you mean: %s?\n", args[0], strings.Join(suggestions, ", "))
			} else {
				fmt.Fprintf(r.output, "Unknown command %q. Type \"help\" for a list.\n", args[0])
			}
			continue
		}

		if r.execute == nil {
			continue
		}
		if err := r.execute(args); err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

func (r *REPL) printHistory() {
	for i, entry := range r.history.All() {
		fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
	}
}

// splitLine tokenizes a command line, honoring single and double quotes
// so written content can contain spaces.
func splitLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var quote byte
	inToken := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				current.WriteByte(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
			inToken = true
		case ch == ' ' || ch == '\t':
			if inToken {
				args = append(args, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteByte(ch)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unclosed quote")
	}
	if inToken {
		args = append(args, current.String())
	}
	return args, nil
}
