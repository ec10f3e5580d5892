// Package toolserver exposes the virtual filesystem and its snapshot
// manager as MCP tools.
//
// The server speaks the Model Context Protocol over any mcp.Transport:
// stdio in production, in-memory pairs in tests. Fourteen tools are
// registered, nine for filesystem access (list_directory, read_file,
// write_file, mkdir, delete, copy, move, find, get_storage_stats) and
// five for snapshots (create_snapshot, restore_snapshot, list_snapshots,
// export_snapshot, import_snapshot).
//
// Every call runs through a shared middleware that assigns a request ID,
// enforces an optional token-bucket rate limit, records Prometheus
// metrics, and logs the outcome. Handler failures are returned as tool
// errors with their domain error code intact; the session itself stays
// alive.
package toolserver
