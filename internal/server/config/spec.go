// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for vfsnap-server.
type ServerConfig struct {
	Storage  StorageSection  `koanf:"storage"`
	Snapshot SnapshotSection `koanf:"snapshot"`
	Metrics  MetricsSection  `koanf:"metrics"`
	Limit    LimitSection    `koanf:"limit"`
	Log      LogSection      `koanf:"log"`
}

// StorageSection selects and configures the filesystem backend.
type StorageSection struct {
	// Provider selects the backend: "memory", "local" or "badger".
	Provider string `koanf:"provider"`

	Local  LocalConfig  `koanf:"local"`
	Badger BadgerConfig `koanf:"badger"`
}

// LocalConfig configures the disk-backed provider.
type LocalConfig struct {
	// Root is the host directory the virtual tree is rooted at.
	Root string `koanf:"root"`
}

// BadgerConfig configures the Badger-backed provider.
type BadgerConfig struct {
	// Dir is the Badger database directory.
	Dir string `koanf:"dir"`

	// GCInterval is how often value-log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// SnapshotSection configures the snapshot engine.
type SnapshotSection struct {
	// Dir is the reserved virtual directory snapshot documents live under.
	Dir string `koanf:"dir"`

	// Ephemeral disables persistence; snapshots exist only in memory.
	Ephemeral bool `koanf:"ephemeral"`
}

// MetricsSection configures the Prometheus exposition endpoint.
type MetricsSection struct {
	// Enabled turns the HTTP metrics listener on.
	Enabled bool `koanf:"enabled"`

	// Addr is the listen address for /metrics.
	Addr string `koanf:"addr"`
}

// LimitSection configures tool-call rate limiting.
type LimitSection struct {
	// RPS is the sustained requests-per-second budget (0 disables limiting).
	RPS float64 `koanf:"rps"`

	// Burst is the burst allowance above the sustained rate.
	Burst int `koanf:"burst"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
