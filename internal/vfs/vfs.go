package vfs

import (
	"context"
	"errors"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
	"github.com/vfsnap/vfsnap-go/pkg/vpath"
)

// FileSystem is the capability contract every backend implements in full.
//
// Semantics:
//
//   - All paths are absolute virtual paths (vpath.Normalize form).
//   - WriteFile creates or overwrites a file; the parent directory must
//     already exist (use EnsureDir first).
//   - Mkdir creates a single directory level; the parent must exist.
//   - Rm removes files only; Rmdir removes empty directories only.
//   - Missing paths surface domain.ErrPathNotFound.
//   - Find returns every descendant path (files and directories, not the
//     queried root), sorted; with recursive=false only immediate children.
type FileSystem interface {
	ShallowFS

	// Find enumerates descendant paths of path. Backends unable to
	// enumerate recursively are wrapped with Extend instead of
	// returning domain.ErrNotSupported.
	Find(ctx context.Context, path string, recursive bool) ([]string, error)
}

// ShallowFS is the contract minus recursive enumeration. Extend turns a
// ShallowFS into a full FileSystem by deriving Find from Ls.
type ShallowFS interface {
	// Exists reports whether a file or directory exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Ls lists the immediate children of a directory.
	Ls(ctx context.Context, path string) ([]domain.NodeInfo, error)

	// ReadFile returns the full content of a file.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile creates or overwrites a file with data.
	WriteFile(ctx context.Context, path string, data []byte) error

	// Mkdir creates one directory level.
	Mkdir(ctx context.Context, path string) error

	// Rm removes a file.
	Rm(ctx context.Context, path string) error

	// Rmdir removes an empty directory.
	Rmdir(ctx context.Context, path string) error

	// GetNodeInfo returns metadata for the node at path.
	GetNodeInfo(ctx context.Context, path string) (domain.NodeInfo, error)

	// Stats summarizes backend usage.
	Stats(ctx context.Context) (domain.StorageStats, error)

	// Close releases backend resources. Safe to call once; owned by the
	// caller that opened the backend.
	Close() error
}

// EnsureDir creates the directory chain for dir, root-down, skipping
// levels that already exist. It is the single implementation of parent
// materialization used by restore and the tool layer.
func EnsureDir(ctx context.Context, fs ShallowFS, dir string) error {
	dir = vpath.Normalize(dir)
	if dir == "/" {
		return nil
	}
	for _, ancestor := range append(vpath.Parents(dir), dir) {
		ok, err := fs.Exists(ctx, ancestor)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := fs.Mkdir(ctx, ancestor); err != nil && !errors.Is(err, domain.ErrPathExists) {
			return err
		}
	}
	return nil
}
