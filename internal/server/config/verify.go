// Package config defines the server configuration structure.
package config

import (
	"errors"
	"os"
	"strings"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifySnapshot(&cfg.Snapshot); err != nil {
		return err
	}
	if err := verifyLimit(&cfg.Limit); err != nil {
		return err
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Provider {
	case "memory":
		return nil
	case "local":
		if cfg.Local.Root == "" {
			return errors.New("storage.local.root is required for the local provider")
		}
		if err := os.MkdirAll(cfg.Local.Root, 0750); err != nil {
			return errors.New("cannot create storage root: " + err.Error())
		}
	case "badger":
		if cfg.Badger.Dir == "" {
			return errors.New("storage.badger.dir is required for the badger provider")
		}
		if err := os.MkdirAll(cfg.Badger.Dir, 0750); err != nil {
			return errors.New("cannot create badger directory: " + err.Error())
		}
	default:
		return errors.New("storage.provider must be one of: memory, local, badger")
	}
	return nil
}

func verifySnapshot(cfg *SnapshotSection) error {
	if cfg.Dir == "" {
		return errors.New("snapshot.dir is required")
	}
	if !strings.HasPrefix(cfg.Dir, "/") {
		return errors.New("snapshot.dir must be an absolute virtual path")
	}
	return nil
}

func verifyLimit(cfg *LimitSection) error {
	if cfg.RPS < 0 {
		return errors.New("limit.rps must not be negative")
	}
	if cfg.RPS > 0 && cfg.Burst < 1 {
		return errors.New("limit.burst must be at least 1 when limiting is enabled")
	}
	return nil
}
