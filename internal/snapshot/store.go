package snapshot

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
	"github.com/vfsnap/vfsnap-go/internal/vfs"
)

// DefaultDir is the reserved namespace for self-persisted snapshot
// documents inside the managed filesystem.
const DefaultDir = "/.snapshots"

// docExtension is appended to the snapshot name to form the document file.
const docExtension = ".json"

// Persister stores snapshot documents durably and reloads them at startup.
// The manager treats Save failures as non-fatal: the in-memory snapshot
// stays authoritative for the process lifetime.
type Persister interface {
	// Save writes the snapshot's document. Overwrites any previous version.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// LoadAll reads every persisted document, skipping corrupt ones.
	LoadAll(ctx context.Context) ([]*domain.Snapshot, error)
}

// NopStore keeps snapshots in memory only. Used for ephemeral managers.
type NopStore struct{}

func (NopStore) Save(context.Context, *domain.Snapshot) error { return nil }

func (NopStore) LoadAll(context.Context) ([]*domain.Snapshot, error) { return nil, nil }

// DocStore persists one pretty-printed JSON document per snapshot at
// <dir>/<name>.json inside the managed filesystem.
type DocStore struct {
	fs     vfs.FileSystem
	dir    string
	logger *slog.Logger
}

// NewDocStore creates a document store rooted at dir.
func NewDocStore(fs vfs.FileSystem, dir string, logger *slog.Logger) *DocStore {
	if dir == "" {
		dir = DefaultDir
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DocStore{fs: fs, dir: dir, logger: logger}
}

// Save writes the snapshot document, creating the reserved namespace on
// first use.
func (s *DocStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := vfs.EnsureDir(ctx, s.fs, s.dir); err != nil {
		return domain.ErrSnapshotPersist.WithDetails("ensure " + s.dir).WithCause(err)
	}

	data, err := json.MarshalIndent(snap.Document(), "", "  ")
	if err != nil {
		return domain.ErrSnapshotPersist.WithDetails(snap.Name).WithCause(err)
	}

	docPath := s.dir + "/" + snap.Name + docExtension
	if err := s.fs.WriteFile(ctx, docPath, data); err != nil {
		return domain.ErrSnapshotPersist.WithDetails(docPath).WithCause(err)
	}

	s.logger.Info("snapshot document saved", "name", snap.Name, "path", docPath)
	return nil
}

// LoadAll parses every *.json document under the reserved namespace. A
// missing namespace means no snapshots. Unreadable or corrupt documents are
// logged and skipped; a document whose created timestamp does not parse is
// loaded with the current time. The document filename, not the embedded
// name field, decides the snapshot name.
func (s *DocStore) LoadAll(ctx context.Context) ([]*domain.Snapshot, error) {
	ok, err := s.fs.Exists(ctx, s.dir)
	if err != nil {
		return nil, domain.ErrSnapshotPersist.WithDetails("check " + s.dir).WithCause(err)
	}
	if !ok {
		return nil, nil
	}

	nodes, err := s.fs.Ls(ctx, s.dir)
	if err != nil {
		return nil, domain.ErrSnapshotPersist.WithDetails("list " + s.dir).WithCause(err)
	}

	var snaps []*domain.Snapshot
	for _, node := range nodes {
		if node.IsDir || !strings.HasSuffix(node.Name, docExtension) {
			continue
		}
		name := strings.TrimSuffix(node.Name, docExtension)

		raw, err := s.fs.ReadFile(ctx, node.Path)
		if err != nil {
			s.logger.Warn("skipping unreadable snapshot document", "path", node.Path, "error", err)
			continue
		}

		var doc domain.SnapshotDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			s.logger.Warn("skipping corrupt snapshot document", "path", node.Path, "error", err)
			continue
		}

		doc.Name = name
		snap, parsed := doc.Snapshot()
		if !parsed {
			s.logger.Warn("snapshot document has no usable created time, using now", "name", name)
		}
		snaps = append(snaps, snap)
		s.logger.Info("snapshot loaded", "name", name, "files", snap.FileCount())
	}
	return snaps, nil
}
