// Package confloader loads configuration from files and the environment.
//
// Built on koanf, it merges a YAML config file, VFSNAP_-prefixed
// environment variables and explicit overrides (CLI flags, test maps)
// into one tree and unmarshals the result into a typed struct. Later
// sources override earlier ones:
//
//  1. Command-line flags (via LoadMap)
//  2. Environment variables
//  3. Configuration file
//  4. Struct defaults
//
// A Watcher re-reads the config file when it changes on disk, which the
// server uses for live log-level retuning.
package confloader
