// Package config provides server configuration for vfsnap.
//
// ServerConfig (spec.go) carries the full tree: storage backend
// selection, snapshot persistence, metrics, rate limiting and logging.
// Default() (default.go) fills in a runnable baseline and Verify()
// (verify.go) rejects trees that parse but cannot work, like an unknown
// provider or a local backend without a root.
//
// Loading goes through internal/infra/confloader, so files, VFSNAP_
// environment variables and flags all feed the same struct.
package config
