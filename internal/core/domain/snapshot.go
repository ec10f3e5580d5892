package domain

import (
	"strings"
	"time"
)

// Encoding identifies how a captured file's content is represented in the
// snapshot document. The tag is explicit: decoders never guess from the
// payload shape.
type Encoding string

const (
	// EncodingText marks content stored as raw UTF-8 text.
	EncodingText Encoding = "text"

	// EncodingBase64 marks content stored as standard base64.
	EncodingBase64 Encoding = "base64"
)

// SnapshotTimeFormat is the wire format for snapshot creation timestamps.
const SnapshotTimeFormat = time.RFC3339Nano

// FileEntry is one captured file: its serialized content plus the encoding
// tag that says how to get the original bytes back.
type FileEntry struct {
	Encoding Encoding `json:"encoding"`
	Value    string   `json:"value"`
}

// Snapshot is a named, timestamped full capture of a filesystem tree.
// Directories are not recorded; they are re-derived from file paths at
// restore time, so empty directories do not survive a capture/restore
// round trip.
type Snapshot struct {
	// Name is the unique snapshot key. Capturing under an existing name
	// replaces the previous snapshot entirely.
	Name string

	// Description is free text. Empty descriptions are defaulted at
	// capture time.
	Description string

	// Created is the capture timestamp (UTC).
	Created time.Time

	// Files maps absolute virtual paths to tagged content entries.
	Files map[string]FileEntry
}

// FileCount returns the number of captured files.
func (s *Snapshot) FileCount() int {
	return len(s.Files)
}

// Info returns the metadata view of the snapshot (no payload).
func (s *Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		Name:        s.Name,
		Description: s.Description,
		Created:     s.Created,
		FileCount:   len(s.Files),
	}
}

// Document returns the JSON wire form of the snapshot.
func (s *Snapshot) Document() *SnapshotDocument {
	files := s.Files
	if files == nil {
		files = map[string]FileEntry{}
	}
	return &SnapshotDocument{
		Name:        s.Name,
		Description: s.Description,
		Created:     s.Created.UTC().Format(SnapshotTimeFormat),
		Files:       files,
	}
}

// SnapshotInfo is the payload-free metadata view used by listings.
type SnapshotInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	FileCount   int       `json:"file_count"`
}

// SnapshotDocument is the persisted JSON layout of a snapshot:
//
//	{
//	  "name": "pre-deploy",
//	  "description": "...",
//	  "created": "2026-08-25T10:00:00Z",
//	  "files": {"/app/a.txt": {"encoding": "text", "value": "..."}}
//	}
//
// The same layout is used for documents in the reserved namespace and for
// exported files.
type SnapshotDocument struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Created     string               `json:"created"`
	Files       map[string]FileEntry `json:"files"`
}

// Snapshot converts the wire form back into a Snapshot. The returned bool
// is false when the created timestamp was missing or malformed; in that
// case Created falls back to the current time and the caller decides
// whether to warn. A malformed timestamp is never a load failure.
func (d *SnapshotDocument) Snapshot() (*Snapshot, bool) {
	created, ok := ParseSnapshotTime(d.Created)
	if !ok {
		created = time.Now().UTC()
	}
	files := d.Files
	if files == nil {
		files = map[string]FileEntry{}
	}
	return &Snapshot{
		Name:        d.Name,
		Description: d.Description,
		Created:     created,
		Files:       files,
	}, ok
}

// snapshotTimeLayouts lists accepted creation timestamp layouts. RFC 3339
// covers documents written by this engine; the naive ISO-8601 layout covers
// documents produced by implementations that omit the zone (assumed UTC).
var snapshotTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// ParseSnapshotTime parses an ISO-8601 creation timestamp. It returns
// ok=false when the value does not parse under any accepted layout.
func ParseSnapshotTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range snapshotTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ValidateSnapshotName checks that a snapshot name is usable as a document
// key. Names become `<name>.json` files in the reserved namespace, so path
// separators are rejected.
func ValidateSnapshotName(name string) error {
	if name == "" {
		return ErrSnapshotNameInvalid.WithDetails("name is empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return ErrSnapshotNameInvalid.WithDetails("name must not contain path separators")
	}
	return nil
}
