// Package command provides CLI command definitions for vfsnap-cli.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/vfsnap/vfsnap-go/internal/cli/config"
	"github.com/vfsnap/vfsnap-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group. It manages the CLI's
// own config file, not the server's.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective CLI configuration",
				Action: configShow,
			},
			{
				Name:   "init",
				Usage:  "Write the current settings to the config file",
				Action: configInit,
			},
			{
				Name:   "path",
				Usage:  "Print the default config file location",
				Action: configPath,
			},
		},
	}
}

// effectiveConfig merges defaults, config file, environment and flags,
// strongest last.
func effectiveConfig(c *cli.Context) (*cliconfig.CLIConfig, error) {
	flags := ParseGlobalFlags(c)

	cfg, err := cliconfig.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if flags.Provider != "" {
		cfg.Provider = flags.Provider
	}
	if flags.Root != "" {
		cfg.Local.Root = flags.Root
	}
	if flags.BadgerDir != "" {
		cfg.Badger.Dir = flags.BadgerDir
	}
	if flags.Output != "" {
		cfg.Output = flags.Output
	}
	return cfg, nil
}

func configShow(c *cli.Context) error {
	cfg, err := effectiveConfig(c)
	if err != nil {
		return err
	}

	// Keys mirror the config file structure and the VFSNAP_* variables.
	switch output.Format(cfg.Output) {
	case output.FormatJSON:
		formatter := &output.JSONFormatter{}
		return formatter.Format(c.App.Writer, map[string]string{
			"provider":   cfg.Provider,
			"local.root": cfg.Local.Root,
			"badger.dir": cfg.Badger.Dir,
			"output":     cfg.Output,
		})
	default:
		table := &output.Table{Headers: []string{"KEY", "VALUE"}}
		table.AddRow("provider", cfg.Provider)
		table.AddRow("local.root", cfg.Local.Root)
		table.AddRow("badger.dir", cfg.Badger.Dir)
		table.AddRow("output", cfg.Output)
		return table.Render(c.App.Writer)
	}
}

func configInit(c *cli.Context) error {
	cfg, err := effectiveConfig(c)
	if err != nil {
		return err
	}

	path := c.String("config")
	if path == "" {
		path = cliconfig.DefaultConfigPath()
	}
	if err := cliconfig.Save(cfg, path); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}

func configPath(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, cliconfig.DefaultConfigPath())
	return nil
}
