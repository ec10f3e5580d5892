// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultProvider = "memory"

	DefaultLocalRoot        = "/var/lib/vfsnap/root"
	DefaultBadgerDir        = "/var/lib/vfsnap/badger"
	DefaultBadgerGCInterval = 5 * time.Minute

	DefaultSnapshotDir = "/.snapshots"

	DefaultMetricsAddr = "127.0.0.1:5090"

	DefaultLimitRPS   = 50.0
	DefaultLimitBurst = 100

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Storage: StorageSection{
			Provider: DefaultProvider,
			Local: LocalConfig{
				Root: DefaultLocalRoot,
			},
			Badger: BadgerConfig{
				Dir:        DefaultBadgerDir,
				GCInterval: DefaultBadgerGCInterval,
			},
		},
		Snapshot: SnapshotSection{
			Dir: DefaultSnapshotDir,
		},
		Metrics: MetricsSection{
			Enabled: true,
			Addr:    DefaultMetricsAddr,
		},
		Limit: LimitSection{
			RPS:   DefaultLimitRPS,
			Burst: DefaultLimitBurst,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
