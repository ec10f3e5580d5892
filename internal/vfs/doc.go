// Package vfs defines the filesystem capability contract the snapshot
// engine and the tool surface operate against.
//
// Backends implement the full FileSystem interface:
//
//   - memfs: in-memory store over a sharded concurrent map
//   - localfs: local disk, rooted at a configured directory (afero)
//   - badgerfs: persistent Badger-backed key-value store
//
// Paths are absolute virtual paths ("/"-rooted, cleaned). WriteFile does
// not create missing parents; callers materialize parent chains first via
// EnsureDir. Backends that only support shallow listing are wrapped once
// with Extend, which derives recursive Find from Ls; the engine itself
// never probes capabilities.
//
// Backend construction is explicit dependency injection: Open builds a
// backend from Options, and the caller that opened a backend owns its
// Close.
package vfs
