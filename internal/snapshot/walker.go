package snapshot

import (
	"context"

	"github.com/vfsnap/vfsnap-go/internal/vfs"
	"github.com/vfsnap/vfsnap-go/pkg/vpath"
)

// Walker enumerates the live tree for capture and restore, keeping the
// reserved namespace out of every result. It is read-only.
type Walker struct {
	fs       vfs.FileSystem
	excluded string
}

// NewWalker creates a walker that hides the excluded directory and
// everything beneath it.
func NewWalker(fs vfs.FileSystem, excluded string) *Walker {
	return &Walker{fs: fs, excluded: vpath.Normalize(excluded)}
}

// Paths returns every live path under the root, files and directories,
// minus the reserved namespace.
func (w *Walker) Paths(ctx context.Context) ([]string, error) {
	all, err := w.fs.Find(ctx, "/", true)
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(all))
	for _, p := range all {
		if vpath.Under(p, w.excluded) {
			continue
		}
		kept = append(kept, p)
	}
	return kept, nil
}

// IsFile classifies a path. When node metadata is unavailable the path is
// conservatively treated as a file so capture still records its content.
func (w *Walker) IsFile(ctx context.Context, p string) bool {
	info, err := w.fs.GetNodeInfo(ctx, p)
	if err != nil {
		return true
	}
	return !info.IsDir
}
