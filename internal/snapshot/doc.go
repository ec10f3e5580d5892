// Package snapshot implements the capture/diff/restore engine over a
// managed filesystem.
//
// A snapshot is a named full capture of the tree: every file's content as
// a tagged text or base64 entry, plus metadata. The engine:
//
//   - captures the live tree into an immutable payload (walker + codec)
//   - restores a named snapshot by reconciling the live tree against it:
//     delete extraneous files, materialize directory chains, write payload
//   - self-persists one JSON document per snapshot under a reserved
//     namespace inside the managed filesystem and reloads them at startup
//   - exports and imports the same document format through external files
//
// The reserved namespace (DefaultDir) is excluded from every capture and
// from restore's deletion phase, so the engine can never snapshot or
// delete its own documents.
//
// Operations are synchronous and single-writer. The index tolerates
// concurrent readers, but concurrent captures or restores against the same
// tree race with last-writer-wins semantics.
package snapshot
