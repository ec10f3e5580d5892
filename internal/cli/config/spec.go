package config

import (
	"os"
	"path/filepath"
)

// CLIConfig holds the persistent preferences for vfsnap-cli, stored at
// ~/.vfsnap/cli.yaml. Command-line flags override every field.
type CLIConfig struct {
	// Provider selects the storage backend: "memory", "local" or
	// "badger".
	Provider string `koanf:"provider" yaml:"provider"`

	// Local configures the local provider.
	Local LocalConfig `koanf:"local" yaml:"local"`

	// Badger configures the badger provider.
	Badger BadgerConfig `koanf:"badger" yaml:"badger"`

	// Output is the default rendering: "table" or "json".
	Output string `koanf:"output" yaml:"output"`
}

// LocalConfig holds local provider settings.
type LocalConfig struct {
	// Root is the host directory backing the virtual tree.
	Root string `koanf:"root" yaml:"root"`
}

// BadgerConfig holds badger provider settings.
type BadgerConfig struct {
	// Dir is the database directory.
	Dir string `koanf:"dir" yaml:"dir"`
}

// Default returns the CLI configuration used when no config file exists.
// The local provider keeps state between invocations, which is what a
// command-line workflow needs; the memory provider would start empty on
// every run.
func Default() *CLIConfig {
	home, _ := os.UserHomeDir()
	return &CLIConfig{
		Provider: "local",
		Local:    LocalConfig{Root: filepath.Join(home, ".vfsnap", "root")},
		Badger:   BadgerConfig{Dir: filepath.Join(home, ".vfsnap", "badger")},
		Output:   "table",
	}
}
