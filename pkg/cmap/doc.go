// Package cmap provides a concurrent map keyed by strings, sharded to
// reduce lock contention.
//
// Keys are hashed with hash/maphash onto a power-of-two number of
// shards, each guarded by its own RWMutex, so writers touching unrelated
// keys rarely contend. The in-memory filesystem backend keys these maps
// by virtual path; sibling paths hash apart and spread across shards.
//
// Usage:
//
//	files := cmap.New[[]byte]()
//	files.Set("/app/config.yaml", data)
//	if data, ok := files.Get("/app/config.yaml"); ok {
//		// ...
//	}
//
// Range iterates shard by shard and is not a consistent point-in-time
// view; callers that need a stable listing should collect keys first and
// re-check entries as they go.
package cmap
