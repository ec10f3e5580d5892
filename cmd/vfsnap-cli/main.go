// Package main provides the entry point for vfsnap-cli.
//
// vfsnap-cli is the command-line management tool for vfsnap, operating
// directly on a configured storage backend in both single-command mode
// and interactive REPL mode.
package main

import (
	"os"

	"github.com/vfsnap/vfsnap-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		command.PrintError("%v", err)
		os.Exit(1)
	}
}
