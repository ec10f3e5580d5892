// Package config provides the vfsnap-cli configuration.
//
// Layout:
//
//   - spec.go: CLIConfig struct (~/.vfsnap/cli.yaml)
//   - loader.go: loading (koanf: file + VFSNAP_ env) and saving (YAML)
//
// The file supplies defaults for the storage provider, its directories
// and the output format. Command-line flags override everything here.
package config
