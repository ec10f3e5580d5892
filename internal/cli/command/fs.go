// Package command provides CLI command definitions for vfsnap-cli.
package command

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
	"github.com/vfsnap/vfsnap-go/internal/vfs"
	"github.com/vfsnap/vfsnap-go/pkg/vpath"
)

// FSCommand returns the fs subcommand group.
func FSCommand() *cli.Command {
	return &cli.Command{
		Name:  "fs",
		Usage: "Operate on the virtual filesystem",
		Subcommands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List directory contents",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "recursive",
						Aliases: []string{"r"},
						Usage:   "Descend into subdirectories",
					},
				},
				Action: fsLs,
			},
			{
				Name:      "cat",
				Usage:     "Print file contents",
				ArgsUsage: "PATH",
				Action:    fsCat,
			},
			{
				Name:      "write",
				Usage:     "Create or overwrite a file",
				ArgsUsage: "PATH [CONTENT]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "from",
						Usage: "Read content from a host file instead of the argument",
					},
				},
				Action: fsWrite,
			},
			{
				Name:      "mkdir",
				Usage:     "Create a directory",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "recursive",
						Aliases: []string{"r"},
						Usage:   "Create missing parent directories",
					},
				},
				Action: fsMkdir,
			},
			{
				Name:      "rm",
				Usage:     "Remove a file or directory",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "recursive",
						Aliases: []string{"r"},
						Usage:   "Remove a directory and everything under it",
					},
				},
				Action: fsRm,
			},
			{
				Name:      "cp",
				Usage:     "Copy a file or directory",
				ArgsUsage: "SRC DST",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "recursive",
						Aliases: []string{"r"},
						Usage:   "Copy a directory and everything under it",
					},
				},
				Action: fsCp,
			},
			{
				Name:      "mv",
				Usage:     "Move a file or directory",
				ArgsUsage: "SRC DST",
				Action:    fsMv,
			},
			{
				Name:      "find",
				Usage:     "List every path under a directory",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "pattern",
						Usage: "Glob matched against the full path or the base name",
					},
				},
				Action: fsFind,
			},
			{
				Name:   "stats",
				Usage:  "Show backend usage statistics",
				Action: fsStats,
			},
		},
	}
}

// nodeRow shapes a NodeInfo for listing output.
type nodeRow struct {
	Path     string    `json:"path"`
	Type     string    `json:"type"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified" table:"wide"`
}

func nodeRows(nodes []domain.NodeInfo) []nodeRow {
	rows := make([]nodeRow, 0, len(nodes))
	for _, n := range nodes {
		kind := "file"
		if n.IsDir {
			kind = "dir"
		}
		rows = append(rows, nodeRow{Path: n.Path, Type: kind, Size: n.Size, Modified: n.Modified})
	}
	return rows
}

func fsLs(c *cli.Context) error {
	p := c.Args().First()
	if p == "" {
		p = "/"
	}

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := actionContext(c)
	defer cancel()

	target := vpath.Normalize(p)

	var nodes []domain.NodeInfo
	if c.Bool("recursive") {
		paths, err := env.FS.Find(ctx, target, true)
		if err != nil {
			return err
		}
		for _, sub := range paths {
			info, err := env.FS.GetNodeInfo(ctx, sub)
			if err != nil {
				continue // raced with a concurrent delete
			}
			nodes = append(nodes, info)
		}
	} else {
		nodes, err = env.FS.Ls(ctx, target)
		if err != nil {
			return err
		}
	}

	return render(c, env, nodeRows(nodes))
}

func fsCat(c *cli.Context) error {
	p := c.Args().First()
	if p == "" {
		return fmt.Errorf("path required")
	}

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := actionContext(c)
	defer cancel()

	data, err := env.FS.ReadFile(ctx, vpath.Normalize(p))
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func fsWrite(c *cli.Context) error {
	p := c.Args().First()
	if p == "" {
		return fmt.Errorf("path required")
	}

	data, err := writeInput(c)
	if err != nil {
		return err
	}

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := actionContext(c)
	defer cancel()

	target := vpath.Normalize(p)
	if dir := path.Dir(target); dir != "/" {
		if err := vfs.EnsureDir(ctx, env.FS, dir); err != nil {
			return err
		}
	}
	if err := env.FS.WriteFile(ctx, target, data); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Wrote %d bytes to %s\n", len(data), target)
	return nil
}

// writeInput resolves the content for fs write: the second positional
// argument, or the host file named by --from.
func writeInput(c *cli.Context) ([]byte, error) {
	if from := c.String("from"); from != "" {
		return os.ReadFile(from)
	}
	if c.Args().Len() >= 2 {
		return []byte(c.Args().Get(1)), nil
	}
	return nil, fmt.Errorf("content required (positional argument or --from)")
}

func fsMkdir(c *cli.Context) error {
	p := c.Args().First()
	if p == "" {
		return fmt.Errorf("path required")
	}

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := actionContext(c)
	defer cancel()

	target := vpath.Normalize(p)
	if c.Bool("recursive") {
		err = vfs.EnsureDir(ctx, env.FS, target)
	} else {
		err = env.FS.Mkdir(ctx, target)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Created %s\n", target)
	return nil
}

func fsRm(c *cli.Context) error {
	p := c.Args().First()
	if p == "" {
		return fmt.Errorf("path required")
	}

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := actionContext(c)
	defer cancel()

	target := vpath.Normalize(p)
	if target == "/" {
		return fmt.Errorf("cannot remove the root directory")
	}

	info, err := env.FS.GetNodeInfo(ctx, target)
	if err != nil {
		return err
	}

	switch {
	case !info.IsDir:
		err = env.FS.Rm(ctx, target)
	case c.Bool("recursive"):
		var removed int
		removed, err = vfs.RemoveTree(ctx, env.FS, target)
		if err == nil {
			fmt.Fprintf(c.App.Writer, "Removed %s (%d nodes)\n", target, removed)
			return nil
		}
	default:
		err = env.FS.Rmdir(ctx, target)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Removed %s\n", target)
	return nil
}

func fsCp(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("source and destination required")
	}
	src := vpath.Normalize(c.Args().Get(0))
	dst := vpath.Normalize(c.Args().Get(1))

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := actionContext(c)
	defer cancel()

	info, err := env.FS.GetNodeInfo(ctx, src)
	if err != nil {
		return err
	}

	if !info.IsDir {
		if err := vfs.CopyFile(ctx, env.FS, src, dst); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Copied %s to %s\n", src, dst)
		return nil
	}

	if !c.Bool("recursive") {
		return fmt.Errorf("%s is a directory; use --recursive", src)
	}
	if vpath.Under(dst, src) {
		return fmt.Errorf("destination is inside the source")
	}

	copied, err := vfs.CopyTree(ctx, env.FS, src, dst)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Copied %s to %s (%d files)\n", src, dst, copied)
	return nil
}

func fsMv(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("source and destination required")
	}
	src := vpath.Normalize(c.Args().Get(0))
	dst := vpath.Normalize(c.Args().Get(1))

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := actionContext(c)
	defer cancel()

	info, err := env.FS.GetNodeInfo(ctx, src)
	if err != nil {
		return err
	}

	if !info.IsDir {
		if err := vfs.CopyFile(ctx, env.FS, src, dst); err != nil {
			return err
		}
		if err := env.FS.Rm(ctx, src); err != nil {
			return err
		}
	} else {
		if vpath.Under(dst, src) {
			return fmt.Errorf("destination is inside the source")
		}
		if _, err := vfs.CopyTree(ctx, env.FS, src, dst); err != nil {
			return err
		}
		if _, err := vfs.RemoveTree(ctx, env.FS, src); err != nil {
			return err
		}
	}

	fmt.Fprintf(c.App.Writer, "Moved %s to %s\n", src, dst)
	return nil
}

// pathRow wraps a bare path so list output gets a named column.
type pathRow struct {
	Path string `json:"path"`
}

func fsFind(c *cli.Context) error {
	p := c.Args().First()
	if p == "" {
		p = "/"
	}

	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := actionContext(c)
	defer cancel()

	paths, err := env.FS.Find(ctx, vpath.Normalize(p), true)
	if err != nil {
		return err
	}

	pattern := c.String("pattern")
	rows := make([]pathRow, 0, len(paths))
	for _, candidate := range paths {
		if pattern != "" {
			ok, err := vpath.Match(pattern, candidate)
			if err != nil {
				return fmt.Errorf("bad pattern %q", pattern)
			}
			if !ok {
				continue
			}
		}
		rows = append(rows, pathRow{Path: candidate})
	}

	return render(c, env, rows)
}

func fsStats(c *cli.Context) error {
	env, release, err := environment(c)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := actionContext(c)
	defer cancel()

	stats, err := env.FS.Stats(ctx)
	if err != nil {
		return err
	}
	return render(c, env, stats)
}
