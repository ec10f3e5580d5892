package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
	"github.com/vfsnap/vfsnap-go/internal/vfs"
)

// Config holds the snapshot manager settings.
type Config struct {
	// Dir is the reserved namespace for persisted snapshot documents
	// inside the managed filesystem. Default: "/.snapshots".
	Dir string

	// Ephemeral disables self-persistence. Snapshots then live in memory
	// only and vanish with the process; export and import keep working.
	Ephemeral bool

	// Logger receives structured events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Manager captures, restores and persists point-in-time images of a
// virtual filesystem. All methods are safe for concurrent use, but the
// manager assumes it is the only writer of the reserved namespace.
type Manager struct {
	fs     vfs.FileSystem
	store  Persister
	walker *Walker
	logger *slog.Logger

	mu    sync.RWMutex
	snaps map[string]*domain.Snapshot
}

// NewManager creates a manager over fs and reloads any snapshot documents
// found under the reserved namespace. A failure to create the namespace or
// to reload documents is logged and tolerated: the manager starts empty
// rather than refusing to start.
func NewManager(ctx context.Context, fs vfs.FileSystem, cfg Config) (*Manager, error) {
	if fs == nil {
		return nil, fmt.Errorf("snapshot: filesystem is required")
	}
	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var store Persister = NopStore{}
	if !cfg.Ephemeral {
		if err := vfs.EnsureDir(ctx, fs, cfg.Dir); err != nil {
			cfg.Logger.Warn("creating snapshot directory failed", "dir", cfg.Dir, "error", err)
		}
		store = NewDocStore(fs, cfg.Dir, cfg.Logger)
	}

	m := &Manager{
		fs:     fs,
		store:  store,
		walker: NewWalker(fs, cfg.Dir),
		logger: cfg.Logger,
		snaps:  make(map[string]*domain.Snapshot),
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		m.logger.Warn("loading persisted snapshots failed", "error", err)
	}
	for _, snap := range loaded {
		m.snaps[snap.Name] = snap
	}
	if len(loaded) > 0 {
		m.logger.Info("snapshots loaded", "count", len(loaded))
	}
	return m, nil
}

// Capture records the content of every file outside the reserved namespace
// under the given name, replacing any existing snapshot with that name.
// Unreadable files are logged and skipped. A persistence failure is logged
// but does not fail the capture; the in-memory snapshot stays authoritative.
func (m *Manager) Capture(ctx context.Context, name, description string) (domain.SnapshotInfo, error) {
	if err := domain.ValidateSnapshotName(name); err != nil {
		return domain.SnapshotInfo{}, err
	}

	m.logger.Info("creating snapshot", "name", name)

	paths, err := m.walker.Paths(ctx)
	if err != nil {
		m.logger.Warn("enumerating files for snapshot failed", "error", err)
		paths = nil
	}

	files := make(map[string]domain.FileEntry)
	for _, p := range paths {
		if !m.walker.IsFile(ctx, p) {
			continue
		}
		content, err := m.fs.ReadFile(ctx, p)
		if err != nil {
			m.logger.Warn("skipping unreadable file", "path", p, "error", err)
			continue
		}
		files[p] = Encode(content)
	}

	now := time.Now().UTC()
	if description == "" {
		description = "Snapshot created at " + now.Format(domain.SnapshotTimeFormat)
	}

	snap := &domain.Snapshot{
		Name:        name,
		Description: description,
		Created:     now,
		Files:       files,
	}

	m.mu.Lock()
	m.snaps[name] = snap
	m.mu.Unlock()

	if err := m.store.Save(ctx, snap); err != nil {
		m.logger.Error("persisting snapshot failed", "name", name, "error", err)
	}

	m.logger.Info("snapshot created", "name", name, "files", len(files))
	return snap.Info(), nil
}

// RestoreStats counts what a restore touched. Skipped covers payloads that
// failed to decode or write and live files that could not be deleted.
type RestoreStats struct {
	Deleted int `json:"deleted"`
	Written int `json:"written"`
	Skipped int `json:"skipped"`
}

// Restore rewinds the live tree to the named snapshot in three passes:
// delete files the snapshot does not know, materialize parent directories,
// write payloads. Every pass is best-effort; failures are logged, counted
// as skipped and do not abort the rest of the restore. Directories that
// were empty at capture time are not recreated.
func (m *Manager) Restore(ctx context.Context, name string) (RestoreStats, error) {
	m.mu.RLock()
	snap, ok := m.snaps[name]
	m.mu.RUnlock()
	if !ok {
		return RestoreStats{}, domain.ErrSnapshotNotFound.WithDetails(name)
	}

	m.logger.Info("restoring snapshot", "name", name, "files", snap.FileCount())

	var stats RestoreStats

	// Pass 1: delete live files the snapshot does not contain. Directories
	// stay in place; a stale directory sitting where the snapshot wants a
	// file surfaces as a write failure in pass 3.
	live, err := m.walker.Paths(ctx)
	if err != nil {
		m.logger.Warn("enumerating files for restore failed", "error", err)
		live = nil
	}
	for _, p := range live {
		if _, keep := snap.Files[p]; keep {
			continue
		}
		if !m.walker.IsFile(ctx, p) {
			continue
		}
		if err := m.fs.Rm(ctx, p); err != nil {
			m.logger.Warn("deleting extraneous file failed", "path", p, "error", err)
			stats.Skipped++
			continue
		}
		stats.Deleted++
	}

	// Pass 2: materialize every parent chain before any payload lands.
	ensured := make(map[string]bool)
	for p := range snap.Files {
		dir := path.Dir(p)
		if dir == "/" || ensured[dir] {
			continue
		}
		ensured[dir] = true
		if err := vfs.EnsureDir(ctx, m.fs, dir); err != nil {
			m.logger.Warn("creating directory failed", "path", dir, "error", err)
		}
	}

	// Pass 3: write payloads. Order does not matter once the parents exist.
	for p, entry := range snap.Files {
		content, err := Decode(entry)
		if err != nil {
			m.logger.Warn("skipping undecodable snapshot entry", "path", p, "error", err)
			stats.Skipped++
			continue
		}
		if err := m.fs.WriteFile(ctx, p, content); err != nil {
			m.logger.Warn("writing restored file failed", "path", p, "error", err)
			stats.Skipped++
			continue
		}
		stats.Written++
	}

	m.logger.Info("snapshot restored", "name", name,
		"written", stats.Written, "deleted", stats.Deleted, "skipped", stats.Skipped)
	return stats, nil
}

// List returns metadata for every snapshot, oldest first, ties broken by
// name.
func (m *Manager) List() []domain.SnapshotInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]domain.SnapshotInfo, 0, len(m.snaps))
	for _, snap := range m.snaps {
		infos = append(infos, snap.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].Created.Equal(infos[j].Created) {
			return infos[i].Created.Before(infos[j].Created)
		}
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Get returns metadata for one snapshot.
func (m *Manager) Get(name string) (domain.SnapshotInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snaps[name]
	if !ok {
		return domain.SnapshotInfo{}, domain.ErrSnapshotNotFound.WithDetails(name)
	}
	return snap.Info(), nil
}

// Export writes the named snapshot's document to a file on the host
// filesystem, outside the managed tree.
func (m *Manager) Export(name, hostPath string) error {
	m.mu.RLock()
	snap, ok := m.snaps[name]
	m.mu.RUnlock()
	if !ok {
		return domain.ErrSnapshotNotFound.WithDetails(name)
	}

	data, err := json.MarshalIndent(snap.Document(), "", "  ")
	if err != nil {
		return domain.ErrSnapshotExport.WithDetails(name).WithCause(err)
	}
	if err := os.WriteFile(hostPath, data, 0o644); err != nil {
		return domain.ErrSnapshotExport.WithDetails(hostPath).WithCause(err)
	}

	m.logger.Info("snapshot exported", "name", name, "path", hostPath)
	return nil
}

// Import loads a snapshot document from the host filesystem. newName
// overrides the document's embedded name; when both are empty a unique
// name is generated. The imported snapshot replaces any existing snapshot
// with the same name and is persisted like a captured one.
func (m *Manager) Import(ctx context.Context, hostPath, newName string) (domain.SnapshotInfo, error) {
	raw, err := os.ReadFile(hostPath)
	if err != nil {
		return domain.SnapshotInfo{}, domain.ErrSnapshotImport.WithDetails(hostPath).WithCause(err)
	}

	var doc domain.SnapshotDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.SnapshotInfo{}, domain.ErrSnapshotImport.WithDetails(hostPath).WithCause(err)
	}

	name := newName
	if name == "" {
		name = doc.Name
	}
	if name == "" {
		name = fmt.Sprintf("imported_%d", time.Now().Unix())
	}
	if err := domain.ValidateSnapshotName(name); err != nil {
		return domain.SnapshotInfo{}, err
	}

	doc.Name = name
	if doc.Description == "" {
		doc.Description = "Imported snapshot"
	}

	snap, parsed := doc.Snapshot()
	if !parsed {
		m.logger.Warn("imported document has no usable created time, using now", "name", name)
	}

	m.mu.Lock()
	m.snaps[name] = snap
	m.mu.Unlock()

	if err := m.store.Save(ctx, snap); err != nil {
		m.logger.Error("persisting imported snapshot failed", "name", name, "error", err)
	}

	m.logger.Info("snapshot imported", "name", name, "files", snap.FileCount(), "path", hostPath)
	return snap.Info(), nil
}
