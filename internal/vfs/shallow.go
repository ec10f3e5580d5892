package vfs

import (
	"context"
	"sort"

	"github.com/vfsnap/vfsnap-go/pkg/vpath"
)

// Extend adapts a backend that only supports shallow listing into a full
// FileSystem by deriving Find from a breadth-first walk over Ls. This is
// the single fallback implementation for minimal backends; the engine
// always sees a full FileSystem.
func Extend(fs ShallowFS) FileSystem {
	return &shallowExt{fs}
}

type shallowExt struct {
	ShallowFS
}

func (s *shallowExt) Find(ctx context.Context, root string, recursive bool) ([]string, error) {
	root = vpath.Normalize(root)

	var paths []string
	queue := []string{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		nodes, err := s.Ls(ctx, dir)
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			paths = append(paths, node.Path)
			if node.IsDir && recursive {
				queue = append(queue, node.Path)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}
