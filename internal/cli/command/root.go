// Package command provides CLI command definitions for vfsnap-cli.
//
// It uses urfave/cli/v2 for command parsing and supports both
// single-command mode and interactive REPL mode.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/vfsnap/vfsnap-go/internal/cli/config"
	"github.com/vfsnap/vfsnap-go/internal/cli/output"
	"github.com/vfsnap/vfsnap-go/internal/infra/buildinfo"
	"github.com/vfsnap/vfsnap-go/internal/snapshot"
	"github.com/vfsnap/vfsnap-go/internal/telemetry/logger"
	"github.com/vfsnap/vfsnap-go/internal/vfs"
	"github.com/vfsnap/vfsnap-go/internal/vfs/badgerfs"
)

// opTimeout bounds a single CLI operation against the backend.
const opTimeout = 30 * time.Second

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "vfsnap-cli",
		Usage:   "Manage vfsnap virtual filesystems and their snapshots",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			FSCommand(),
			SnapshotCommand(),
			REPLCommand(),
			ConfigCommand(),
		},
	}
}

// globalFlags returns the global CLI flags. Backend and output flags
// carry no default values: an unset flag falls through to the config
// file, which falls through to the built-in defaults.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the CLI config file",
			EnvVars: []string{"VFSNAP_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   "Storage backend: memory, local, badger",
			EnvVars: []string{"VFSNAP_PROVIDER"},
		},
		&cli.StringFlag{
			Name:    "root",
			Usage:   "Host directory backing the local provider",
			EnvVars: []string{"VFSNAP_ROOT"},
		},
		&cli.StringFlag{
			Name:    "badger-dir",
			Usage:   "Data directory for the badger provider",
			EnvVars: []string{"VFSNAP_BADGER_DIR"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json",
			EnvVars: []string{"VFSNAP_OUTPUT"},
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose logging to stderr",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	// Backend selection
	ConfigPath string
	Provider   string
	Root       string
	BadgerDir  string

	// Output format
	Output string // table, json
	Wide   bool

	// Other
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		ConfigPath: c.String("config"),
		Provider:   c.String("provider"),
		Root:       c.String("root"),
		BadgerDir:  c.String("badger-dir"),
		Output:     c.String("output"),
		Wide:       c.Bool("wide"),
		Verbose:    c.Bool("verbose"),
	}
}

// Env bundles an opened backend with the presentation preferences for one
// invocation. The REPL stores a shared Env in the app metadata so every
// line operates on the same backend; one-shot invocations open and close
// their own.
type Env struct {
	FS     vfs.FileSystem
	Snaps  *snapshot.Manager
	Output output.Format
	Wide   bool
}

// environment resolves the Env for a command. The returned release
// function closes the backend unless the Env is shared.
func environment(c *cli.Context) (*Env, func(), error) {
	if env, ok := c.App.Metadata["env"].(*Env); ok && env != nil {
		return env, func() {}, nil
	}

	env, err := OpenEnvironment(c)
	if err != nil {
		return nil, nil, err
	}
	return env, func() { env.FS.Close() }, nil
}

// OpenEnvironment opens the backend selected by flags and config file.
// Flags override config values; the config supplies the defaults.
func OpenEnvironment(c *cli.Context) (*Env, error) {
	flags := ParseGlobalFlags(c)

	cfg, err := cliconfig.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	level := "error"
	if flags.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Format: "text"})
	if err != nil {
		return nil, err
	}

	fs, err := vfs.Open(vfs.Options{
		Provider:  coalesce(flags.Provider, cfg.Provider),
		LocalRoot: coalesce(flags.Root, cfg.Local.Root),
		Badger:    badgerfs.Config{Dir: coalesce(flags.BadgerDir, cfg.Badger.Dir)},
		Logger:    logger.Slog(log),
	})
	if err != nil {
		return nil, err
	}

	snaps, err := snapshot.NewManager(commandContext(c), fs, snapshot.Config{Logger: logger.Slog(log)})
	if err != nil {
		fs.Close()
		return nil, err
	}

	return &Env{
		FS:     fs,
		Snaps:  snaps,
		Output: output.Format(coalesce(flags.Output, cfg.Output)),
		Wide:   flags.Wide,
	}, nil
}

// actionContext returns the bounded context for one command action.
func actionContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(commandContext(c), opTimeout)
}

// commandContext unwraps the cli context, tolerating contexts built
// outside App.Run (tests construct those without a parent context).
func commandContext(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}

// render writes data through the formatter, honoring per-invocation
// output overrides. Inside the REPL the shared Env carries the session
// preferences and explicit flags on the line still win.
func render(c *cli.Context, env *Env, data any) error {
	format, wide := env.Output, env.Wide
	if c.IsSet("output") {
		format = output.Format(c.String("output"))
	}
	if c.IsSet("wide") {
		wide = c.Bool("wide")
	}
	return output.NewFormatter(format, wide).Format(c.App.Writer, data)
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
