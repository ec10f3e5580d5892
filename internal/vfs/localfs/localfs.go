// Package localfs provides the local-disk filesystem backend.
//
// Virtual paths map onto a host directory through an afero BasePathFs, so
// the virtual tree cannot escape the configured root. NewWithFs accepts any
// afero.Fs directly; tests use it with an in-memory MemMapFs.
package localfs

import (
	"context"
	"os"
	"path"
	"sort"

	"github.com/spf13/afero"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
	"github.com/vfsnap/vfsnap-go/pkg/vpath"
)

// ProviderName identifies this backend in stats and configuration.
const ProviderName = "local"

// FS is the local-disk backend. It layers the uniform contract semantics
// (strict parents, typed errors) over an afero filesystem.
type FS struct {
	afs afero.Afero
}

// New creates a backend rooted at the host directory root, creating the
// directory if needed.
func New(root string) (*FS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, domain.ErrStorageIO.WithDetails("create root " + root).WithCause(err)
	}
	return NewWithFs(afero.NewBasePathFs(afero.NewOsFs(), root)), nil
}

// NewWithFs wraps an existing afero filesystem.
func NewWithFs(base afero.Fs) *FS {
	return &FS{afs: afero.Afero{Fs: base}}
}

// Exists reports whether a file or directory exists at p.
func (f *FS) Exists(_ context.Context, p string) (bool, error) {
	p = vpath.Normalize(p)
	ok, err := f.afs.Exists(p)
	if err != nil {
		return false, ioErr(p, err)
	}
	return ok, nil
}

// Ls lists the immediate children of a directory, sorted by name.
func (f *FS) Ls(_ context.Context, p string) ([]domain.NodeInfo, error) {
	p = vpath.Normalize(p)
	fi, err := f.stat(p)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, domain.ErrNotDirectory.WithDetails(p)
	}

	entries, err := f.afs.ReadDir(p)
	if err != nil {
		return nil, ioErr(p, err)
	}
	nodes := make([]domain.NodeInfo, 0, len(entries))
	for _, e := range entries {
		n := domain.NodeInfo{
			Path:     path.Join(p, e.Name()),
			Name:     e.Name(),
			IsDir:    e.IsDir(),
			Modified: e.ModTime(),
		}
		if !e.IsDir() {
			n.Size = e.Size()
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Find enumerates descendant paths of p, sorted. With recursive=false only
// immediate children are returned.
func (f *FS) Find(_ context.Context, p string, recursive bool) ([]string, error) {
	p = vpath.Normalize(p)
	fi, err := f.stat(p)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, domain.ErrNotDirectory.WithDetails(p)
	}

	var paths []string
	if !recursive {
		entries, err := f.afs.ReadDir(p)
		if err != nil {
			return nil, ioErr(p, err)
		}
		for _, e := range entries {
			paths = append(paths, path.Join(p, e.Name()))
		}
		return paths, nil
	}

	walkErr := f.afs.Walk(p, func(walked string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		walked = vpath.Normalize(walked)
		if walked != p {
			paths = append(paths, walked)
		}
		return nil
	})
	if walkErr != nil {
		return nil, ioErr(p, walkErr)
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadFile returns the file content at p.
func (f *FS) ReadFile(_ context.Context, p string) ([]byte, error) {
	p = vpath.Normalize(p)
	fi, err := f.stat(p)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, domain.ErrNotFile.WithDetails(p)
	}
	data, err := f.afs.ReadFile(p)
	if err != nil {
		return nil, ioErr(p, err)
	}
	return data, nil
}

// WriteFile creates or overwrites the file at p. The parent directory must
// already exist; this holds even on afero backends that would auto-create
// parents themselves.
func (f *FS) WriteFile(_ context.Context, p string, data []byte) error {
	p = vpath.Normalize(p)
	if p == "/" {
		return domain.ErrNotFile.WithDetails(p)
	}
	if fi, err := f.afs.Stat(p); err == nil && fi.IsDir() {
		return domain.ErrNotFile.WithDetails(p)
	}
	if err := f.requireDir(path.Dir(p)); err != nil {
		return err
	}
	if err := f.afs.WriteFile(p, data, 0o644); err != nil {
		return ioErr(p, err)
	}
	return nil
}

// Mkdir creates a single directory level under an existing parent.
func (f *FS) Mkdir(_ context.Context, p string) error {
	p = vpath.Normalize(p)
	if p == "/" {
		return domain.ErrPathExists.WithDetails("/")
	}
	ok, err := f.afs.Exists(p)
	if err != nil {
		return ioErr(p, err)
	}
	if ok {
		return domain.ErrPathExists.WithDetails(p)
	}
	if err := f.requireDir(path.Dir(p)); err != nil {
		return err
	}
	if err := f.afs.Mkdir(p, 0o755); err != nil {
		return ioErr(p, err)
	}
	return nil
}

// Rm removes a file.
func (f *FS) Rm(_ context.Context, p string) error {
	p = vpath.Normalize(p)
	fi, err := f.stat(p)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return domain.ErrNotFile.WithDetails(p)
	}
	if err := f.afs.Remove(p); err != nil {
		return ioErr(p, err)
	}
	return nil
}

// Rmdir removes an empty directory. The root cannot be removed.
func (f *FS) Rmdir(_ context.Context, p string) error {
	p = vpath.Normalize(p)
	if p == "/" {
		return domain.ErrInvalidPath.WithDetails("cannot remove root")
	}
	fi, err := f.stat(p)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return domain.ErrNotDirectory.WithDetails(p)
	}
	entries, err := f.afs.ReadDir(p)
	if err != nil {
		return ioErr(p, err)
	}
	if len(entries) > 0 {
		return domain.ErrDirNotEmpty.WithDetails(p)
	}
	if err := f.afs.Remove(p); err != nil {
		return ioErr(p, err)
	}
	return nil
}

// GetNodeInfo returns metadata for the node at p.
func (f *FS) GetNodeInfo(_ context.Context, p string) (domain.NodeInfo, error) {
	p = vpath.Normalize(p)
	fi, err := f.stat(p)
	if err != nil {
		return domain.NodeInfo{}, err
	}
	n := domain.NodeInfo{Path: p, Name: path.Base(p), IsDir: fi.IsDir(), Modified: fi.ModTime()}
	if !fi.IsDir() {
		n.Size = fi.Size()
	}
	return n, nil
}

// Stats walks the tree and summarizes it: file count, directory count (root
// excluded), and total file bytes.
func (f *FS) Stats(_ context.Context) (domain.StorageStats, error) {
	stats := domain.StorageStats{Provider: ProviderName}
	err := f.afs.Walk("/", func(walked string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if vpath.Normalize(walked) == "/" {
			return nil
		}
		if fi.IsDir() {
			stats.Directories++
		} else {
			stats.Files++
			stats.Bytes += fi.Size()
		}
		return nil
	})
	if err != nil {
		return domain.StorageStats{}, ioErr("/", err)
	}
	return stats, nil
}

// Close is a no-op for the local-disk backend.
func (f *FS) Close() error { return nil }

func (f *FS) stat(p string) (os.FileInfo, error) {
	fi, err := f.afs.Stat(p)
	if err != nil {
		return nil, ioErr(p, err)
	}
	return fi, nil
}

// requireDir returns ErrPathNotFound unless dir exists and is a directory.
func (f *FS) requireDir(dir string) error {
	ok, err := f.afs.DirExists(dir)
	if err != nil {
		return ioErr(dir, err)
	}
	if !ok {
		return domain.ErrPathNotFound.WithDetails("parent directory " + dir)
	}
	return nil
}

func ioErr(p string, err error) error {
	if os.IsNotExist(err) {
		return domain.ErrPathNotFound.WithDetails(p)
	}
	return domain.ErrStorageIO.WithDetails(p).WithCause(err)
}
