// Package command provides CLI command definitions for vfsnap-cli.
package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
)

// SnapshotCommand returns the snapshot subcommand group.
func SnapshotCommand() *cli.Command {
	return &cli.Command{
		Name:    "snapshot",
		Aliases: []string{"snap"},
		Usage:   "Capture, restore and exchange snapshots",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Capture the current filesystem state",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Human-readable description",
					},
				},
				Action: snapshotCreate,
			},
			{
				Name:      "restore",
				Usage:     "Rewind the filesystem to a snapshot",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: snapshotRestore,
			},
			{
				Name:   "list",
				Usage:  "List snapshots, oldest first",
				Action: snapshotList,
			},
			{
				Name:      "export",
				Usage:     "Write a snapshot document to a host file",
				ArgsUsage: "NAME FILE",
				Action:    snapshotExport,
			},
			{
				Name:      "import",
				Usage:     "Load a snapshot document from a host file",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Store the snapshot under this name",
					},
				},
				Action: snapshotImport,
			},
		},
	}
}

// snapshotRow shapes a SnapshotInfo for listing output.
type snapshotRow struct {
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	FileCount   int       `json:"file_count"`
	Description string    `json:"description,omitempty" table:"wide"`
}

func snapshotRows(infos []domain.SnapshotInfo) []snapshotRow {
	rows := make([]snapshotRow, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, snapshotRow{
			Name:        info.Name,
			Created:     info.Created,
			FileCount:   info.FileCount,
			Description: info.Description,
		})
	}
	return rows
}

func snapshotCreate(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("snapshot name required")
	}

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := actionContext(c)
	defer cancel()

	info, err := env.Snaps.Capture(ctx, name, c.String("description"))
	if err != nil {
		return err
	}
	return render(c, env, info)
}

func snapshotRestore(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("snapshot name required")
	}

	if !c.Bool("force") {
		fmt.Fprintf(c.App.Writer, "This will overwrite the live filesystem with snapshot '%s'. Continue? [y/N]: ", name)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Fprintln(c.App.Writer, "Cancelled.")
			return nil
		}
	}

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := actionContext(c)
	defer cancel()

	stats, err := env.Snaps.Restore(ctx, name)
	if err != nil {
		return err
	}
	return render(c, env, stats)
}

func snapshotList(c *cli.Context) error {
	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	return render(c, env, snapshotRows(env.Snaps.List()))
}

func snapshotExport(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("snapshot name and output file required")
	}
	name := c.Args().Get(0)
	file := c.Args().Get(1)

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	if err := env.Snaps.Export(name, file); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Exported snapshot '%s' to %s\n", name, file)
	return nil
}

func snapshotImport(c *cli.Context) error {
	file := c.Args().First()
	if file == "" {
		return fmt.Errorf("input file required")
	}

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := actionContext(c)
	defer cancel()

	info, err := env.Snaps.Import(ctx, file, c.String("name"))
	if err != nil {
		return err
	}
	return render(c, env, info)
}
