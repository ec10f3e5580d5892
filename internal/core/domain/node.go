package domain

import "time"

// NodeInfo describes a single filesystem node as reported by a backend.
type NodeInfo struct {
	// Path is the absolute virtual path of the node.
	Path string `json:"path"`

	// Name is the last path element.
	Name string `json:"name"`

	// IsDir reports whether the node is a directory.
	IsDir bool `json:"is_dir"`

	// Size is the content length in bytes (0 for directories).
	Size int64 `json:"size"`

	// Modified is the last modification time. Backends without
	// modification tracking report the zero time.
	Modified time.Time `json:"modified"`
}

// StorageStats summarizes backend usage for the get_storage_stats surface.
type StorageStats struct {
	Provider    string `json:"provider"`
	Files       int64  `json:"total_files"`
	Directories int64  `json:"total_directories"`
	Bytes       int64  `json:"total_size"`
}
