package vfs

import (
	"context"
	"path"
	"sort"
	"strings"
)

// CopyFile copies one file, materializing the destination's parent chain.
func CopyFile(ctx context.Context, fs FileSystem, src, dst string) error {
	data, err := fs.ReadFile(ctx, src)
	if err != nil {
		return err
	}
	if dir := path.Dir(dst); dir != "/" {
		if err := EnsureDir(ctx, fs, dir); err != nil {
			return err
		}
	}
	return fs.WriteFile(ctx, dst, data)
}

// CopyTree re-creates the subtree rooted at src under dst and returns the
// number of files written. Find returns sorted paths, so every directory
// is seen before its descendants.
func CopyTree(ctx context.Context, fs FileSystem, src, dst string) (int, error) {
	if err := EnsureDir(ctx, fs, dst); err != nil {
		return 0, err
	}
	paths, err := fs.Find(ctx, src, true)
	if err != nil {
		return 0, err
	}

	copied := 0
	for _, p := range paths {
		target := path.Join(dst, strings.TrimPrefix(p, src))
		info, err := fs.GetNodeInfo(ctx, p)
		if err != nil {
			return copied, err
		}
		if info.IsDir {
			if err := EnsureDir(ctx, fs, target); err != nil {
				return copied, err
			}
			continue
		}
		data, err := fs.ReadFile(ctx, p)
		if err != nil {
			return copied, err
		}
		if err := fs.WriteFile(ctx, target, data); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

// RemoveTree deletes everything under p deepest-first, then p itself, and
// returns the number of nodes removed.
func RemoveTree(ctx context.Context, fs FileSystem, p string) (int, error) {
	paths, err := fs.Find(ctx, p, true)
	if err != nil {
		return 0, err
	}
	// A parent is always shorter than its children, so longest-first
	// empties every directory before its Rmdir.
	sort.Slice(paths, func(i, j int) bool { return len(paths[i]) > len(paths[j]) })

	removed := 0
	for _, child := range paths {
		info, err := fs.GetNodeInfo(ctx, child)
		if err != nil {
			continue
		}
		if info.IsDir {
			err = fs.Rmdir(ctx, child)
		} else {
			err = fs.Rm(ctx, child)
		}
		if err != nil {
			return removed, err
		}
		removed++
	}
	if err := fs.Rmdir(ctx, p); err != nil {
		return removed, err
	}
	return removed + 1, nil
}
