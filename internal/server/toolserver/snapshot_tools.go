package toolserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
	"github.com/vfsnap/vfsnap-go/internal/snapshot"
)

// registerSnapshotTools registers the five snapshot tools.
func (s *Server) registerSnapshotTools() {
	s.registerCreateSnapshot()
	s.registerRestoreSnapshot()
	s.registerListSnapshots()
	s.registerExportSnapshot()
	s.registerImportSnapshot()
}

// --- create_snapshot ---

type createSnapshotRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) registerCreateSnapshot() {
	s.register(&mcp.Tool{
		Name:        "create_snapshot",
		Description: "Capture the current filesystem state under a name. An existing snapshot with the same name is replaced.",
		InputSchema: inputSchema(map[string]any{
			"name":        map[string]any{"type": "string", "description": "Snapshot name"},
			"description": map[string]any{"type": "string", "description": "Free-form note stored with the snapshot"},
		}, []string{"name"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req createSnapshotRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}

		info, err := s.snaps.Capture(ctx, req.Name, req.Description)
		if err != nil {
			return nil, err
		}

		s.metrics.RecordCapture(info.FileCount)
		s.metrics.SetSnapshotCount(len(s.snaps.List()))
		return info, nil
	})
}

// --- restore_snapshot ---

type restoreSnapshotRequest struct {
	Name string `json:"name"`
}

type restoreSnapshotResponse struct {
	Name string `json:"name"`
	snapshot.RestoreStats
}

func (s *Server) registerRestoreSnapshot() {
	s.register(&mcp.Tool{
		Name:        "restore_snapshot",
		Description: "Rewind the filesystem to a named snapshot, deleting files created since it was taken.",
		InputSchema: inputSchema(map[string]any{
			"name": map[string]any{"type": "string", "description": "Snapshot to restore"},
		}, []string{"name"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req restoreSnapshotRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}

		stats, err := s.snaps.Restore(ctx, req.Name)
		if err != nil {
			return nil, err
		}

		s.metrics.RecordRestore(stats.Written)
		return restoreSnapshotResponse{Name: req.Name, RestoreStats: stats}, nil
	})
}

// --- list_snapshots ---

type listSnapshotsResponse struct {
	Snapshots []domain.SnapshotInfo `json:"snapshots"`
	Count     int                   `json:"count"`
}

func (s *Server) registerListSnapshots() {
	s.register(&mcp.Tool{
		Name:        "list_snapshots",
		Description: "List all snapshots, oldest first.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}, func(_ context.Context, _ json.RawMessage) (any, error) {
		infos := s.snaps.List()
		return listSnapshotsResponse{Snapshots: infos, Count: len(infos)}, nil
	})
}

// --- export_snapshot ---

type exportSnapshotRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type exportSnapshotResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func (s *Server) registerExportSnapshot() {
	s.register(&mcp.Tool{
		Name:        "export_snapshot",
		Description: "Write a snapshot document to a file on the host filesystem.",
		InputSchema: inputSchema(map[string]any{
			"name": map[string]any{"type": "string", "description": "Snapshot to export"},
			"path": map[string]any{"type": "string", "description": "Host file path to write"},
		}, []string{"name", "path"}),
	}, func(_ context.Context, args json.RawMessage) (any, error) {
		var req exportSnapshotRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		if req.Path == "" {
			return nil, domain.ErrMissingArgument.WithDetails("path")
		}

		if err := s.snaps.Export(req.Name, req.Path); err != nil {
			return nil, err
		}
		return exportSnapshotResponse{Name: req.Name, Path: req.Path}, nil
	})
}

// --- import_snapshot ---

type importSnapshotRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

func (s *Server) registerImportSnapshot() {
	s.register(&mcp.Tool{
		Name:        "import_snapshot",
		Description: "Load a snapshot document from a host file, optionally under a new name.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Host file path to read"},
			"name": map[string]any{"type": "string", "description": "Rename the snapshot on import"},
		}, []string{"path"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req importSnapshotRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		if req.Path == "" {
			return nil, domain.ErrMissingArgument.WithDetails("path")
		}

		info, err := s.snaps.Import(ctx, req.Path, req.Name)
		if err != nil {
			return nil, err
		}

		s.metrics.SetSnapshotCount(len(s.snaps.List()))
		return info, nil
	})
}
