// Package domain defines the core domain models for vfsnap.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - Snapshot: named full capture of a filesystem tree, with its
//     JSON document wire form and tagged file entries
//   - NodeInfo: backend-reported node metadata
//   - StorageStats: backend usage summary
//   - Errors: structured domain error definitions
//
// Snapshot documents carry an explicit per-entry encoding tag
// ("text" or "base64"); nothing in the system infers an encoding
// from payload bytes.
package domain
