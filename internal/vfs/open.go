package vfs

import (
	"fmt"
	"log/slog"

	"github.com/vfsnap/vfsnap-go/internal/vfs/badgerfs"
	"github.com/vfsnap/vfsnap-go/internal/vfs/localfs"
	"github.com/vfsnap/vfsnap-go/internal/vfs/memfs"
)

// Options selects and configures a storage backend.
type Options struct {
	// Provider is one of "memory", "local", "badger". Empty selects memory.
	Provider string

	// LocalRoot is the host directory backing the "local" provider.
	LocalRoot string

	// Badger configures the "badger" provider.
	Badger badgerfs.Config

	// Logger receives backend lifecycle logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Open constructs the configured backend. The caller owns Close.
func Open(opts Options) (FileSystem, error) {
	switch opts.Provider {
	case "", memfs.ProviderName:
		return memfs.New(), nil

	case localfs.ProviderName:
		if opts.LocalRoot == "" {
			return nil, fmt.Errorf("vfs: local provider requires a root directory")
		}
		return localfs.New(opts.LocalRoot)

	case badgerfs.ProviderName:
		return badgerfs.New(opts.Badger, opts.Logger)

	default:
		return nil, fmt.Errorf("vfs: unknown provider %q", opts.Provider)
	}
}
