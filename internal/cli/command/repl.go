// Package command provides CLI command definitions for vfsnap-cli.
package command

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/vfsnap/vfsnap-go/internal/cli/repl"
)

// REPLCommand returns the interactive shell command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "Start an interactive shell",
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	if _, ok := c.App.Metadata["env"].(*Env); ok {
		return fmt.Errorf("already in interactive mode")
	}

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	// Lines dispatch through a second app that shares one backend, so
	// state on the memory provider survives between commands.
	dispatch := App()
	dispatch.Metadata = map[string]any{"env": env}
	dispatch.Writer = c.App.Writer
	dispatch.ErrWriter = c.App.ErrWriter

	r := repl.New(repl.Config{
		Output:   c.App.Writer,
		Commands: commandPaths(dispatch),
		Execute: func(args []string) error {
			return dispatch.Run(append([]string{dispatch.Name}, args...))
		},
	})
	return r.Run()
}

// commandPaths lists the completable command lines: every top-level
// command and every "group sub" pair, minus the REPL itself.
func commandPaths(app *cli.App) []string {
	var paths []string
	for _, cmd := range app.Commands {
		if cmd.Name == "repl" {
			continue
		}
		paths = append(paths, cmd.Name)
		for _, sub := range cmd.Subcommands {
			paths = append(paths, cmd.Name+" "+sub.Name)
		}
	}
	paths = append(paths, "help")
	sort.Strings(paths)
	return paths
}
