// Package memfs provides the in-memory filesystem backend.
//
// Files and directory markers live in sharded concurrent maps (pkg/cmap).
// The backend is the default provider for ephemeral use and tests; state
// is lost when the process exits unless a snapshot is exported first.
package memfs

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
	"github.com/vfsnap/vfsnap-go/pkg/cmap"
	"github.com/vfsnap/vfsnap-go/pkg/vpath"
)

// ProviderName identifies this backend in stats and configuration.
const ProviderName = "memory"

type fileEntry struct {
	data  []byte
	mtime time.Time
}

// FS is the in-memory backend. All operations are concurrent-safe; the
// context parameters are accepted for contract symmetry and never block.
type FS struct {
	files *cmap.Map[fileEntry]
	dirs  *cmap.Map[time.Time]
}

// New creates an empty in-memory filesystem containing only the root.
func New() *FS {
	fs := &FS{
		files: cmap.New[fileEntry](),
		dirs:  cmap.New[time.Time](),
	}
	fs.dirs.Set("/", time.Now())
	return fs
}

// Exists reports whether a file or directory exists at p.
func (f *FS) Exists(_ context.Context, p string) (bool, error) {
	p = vpath.Normalize(p)
	return f.dirs.Has(p) || f.files.Has(p), nil
}

// Ls lists the immediate children of a directory, sorted by path.
func (f *FS) Ls(_ context.Context, p string) ([]domain.NodeInfo, error) {
	p = vpath.Normalize(p)
	if f.files.Has(p) {
		return nil, domain.ErrNotDirectory.WithDetails(p)
	}
	if !f.dirs.Has(p) {
		return nil, domain.ErrPathNotFound.WithDetails(p)
	}

	var nodes []domain.NodeInfo
	f.dirs.Range(func(dir string, mtime time.Time) bool {
		if dir != "/" && path.Dir(dir) == p {
			nodes = append(nodes, domain.NodeInfo{
				Path: dir, Name: path.Base(dir), IsDir: true, Modified: mtime,
			})
		}
		return true
	})
	f.files.Range(func(file string, e fileEntry) bool {
		if path.Dir(file) == p {
			nodes = append(nodes, domain.NodeInfo{
				Path: file, Name: path.Base(file), Size: int64(len(e.data)), Modified: e.mtime,
			})
		}
		return true
	})

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
	return nodes, nil
}

// Find enumerates descendant paths of p, sorted. With recursive=false only
// immediate children are returned.
func (f *FS) Find(_ context.Context, p string, recursive bool) ([]string, error) {
	p = vpath.Normalize(p)
	if f.files.Has(p) {
		return nil, domain.ErrNotDirectory.WithDetails(p)
	}
	if !f.dirs.Has(p) {
		return nil, domain.ErrPathNotFound.WithDetails(p)
	}

	match := func(candidate string) bool {
		if recursive {
			return candidate != p && vpath.Under(candidate, p)
		}
		return path.Dir(candidate) == p && candidate != "/"
	}

	var paths []string
	f.dirs.Range(func(dir string, _ time.Time) bool {
		if dir != "/" && match(dir) {
			paths = append(paths, dir)
		}
		return true
	})
	f.files.Range(func(file string, _ fileEntry) bool {
		if match(file) {
			paths = append(paths, file)
		}
		return true
	})

	sort.Strings(paths)
	return paths, nil
}

// ReadFile returns a copy of the file content at p.
func (f *FS) ReadFile(_ context.Context, p string) ([]byte, error) {
	p = vpath.Normalize(p)
	if f.dirs.Has(p) {
		return nil, domain.ErrNotFile.WithDetails(p)
	}
	e, ok := f.files.Get(p)
	if !ok {
		return nil, domain.ErrPathNotFound.WithDetails(p)
	}
	return append([]byte(nil), e.data...), nil
}

// WriteFile creates or overwrites the file at p. The parent directory must
// already exist.
func (f *FS) WriteFile(_ context.Context, p string, data []byte) error {
	p = vpath.Normalize(p)
	if p == "/" || f.dirs.Has(p) {
		return domain.ErrNotFile.WithDetails(p)
	}
	if parent := path.Dir(p); !f.dirs.Has(parent) {
		return domain.ErrPathNotFound.WithDetails("parent directory " + parent)
	}
	f.files.Set(p, fileEntry{data: append([]byte(nil), data...), mtime: time.Now()})
	return nil
}

// Mkdir creates a single directory level under an existing parent.
func (f *FS) Mkdir(_ context.Context, p string) error {
	p = vpath.Normalize(p)
	if p == "/" {
		return domain.ErrPathExists.WithDetails("/")
	}
	if f.dirs.Has(p) || f.files.Has(p) {
		return domain.ErrPathExists.WithDetails(p)
	}
	if parent := path.Dir(p); !f.dirs.Has(parent) {
		return domain.ErrPathNotFound.WithDetails("parent directory " + parent)
	}
	f.dirs.Set(p, time.Now())
	return nil
}

// Rm removes a file.
func (f *FS) Rm(_ context.Context, p string) error {
	p = vpath.Normalize(p)
	if f.dirs.Has(p) {
		return domain.ErrNotFile.WithDetails(p)
	}
	if !f.files.Has(p) {
		return domain.ErrPathNotFound.WithDetails(p)
	}
	f.files.Delete(p)
	return nil
}

// Rmdir removes an empty directory. The root cannot be removed.
func (f *FS) Rmdir(_ context.Context, p string) error {
	p = vpath.Normalize(p)
	if p == "/" {
		return domain.ErrInvalidPath.WithDetails("cannot remove root")
	}
	if f.files.Has(p) {
		return domain.ErrNotDirectory.WithDetails(p)
	}
	if !f.dirs.Has(p) {
		return domain.ErrPathNotFound.WithDetails(p)
	}
	if f.hasChildren(p) {
		return domain.ErrDirNotEmpty.WithDetails(p)
	}
	f.dirs.Delete(p)
	return nil
}

// GetNodeInfo returns metadata for the node at p.
func (f *FS) GetNodeInfo(_ context.Context, p string) (domain.NodeInfo, error) {
	p = vpath.Normalize(p)
	if mtime, ok := f.dirs.Get(p); ok {
		return domain.NodeInfo{Path: p, Name: path.Base(p), IsDir: true, Modified: mtime}, nil
	}
	if e, ok := f.files.Get(p); ok {
		return domain.NodeInfo{Path: p, Name: path.Base(p), Size: int64(len(e.data)), Modified: e.mtime}, nil
	}
	return domain.NodeInfo{}, domain.ErrPathNotFound.WithDetails(p)
}

// Stats summarizes the store: file count, directory count (root excluded),
// and total content bytes.
func (f *FS) Stats(_ context.Context) (domain.StorageStats, error) {
	stats := domain.StorageStats{Provider: ProviderName}
	f.files.Range(func(_ string, e fileEntry) bool {
		stats.Files++
		stats.Bytes += int64(len(e.data))
		return true
	})
	stats.Directories = int64(f.dirs.Count() - 1)
	return stats, nil
}

// Close is a no-op for the in-memory backend.
func (f *FS) Close() error { return nil }

func (f *FS) hasChildren(dir string) bool {
	found := false
	prefix := dir + "/"
	f.files.Range(func(p string, _ fileEntry) bool {
		if strings.HasPrefix(p, prefix) {
			found = true
			return false
		}
		return true
	})
	if found {
		return true
	}
	f.dirs.Range(func(p string, _ time.Time) bool {
		if strings.HasPrefix(p, prefix) {
			found = true
			return false
		}
		return true
	})
	return found
}
