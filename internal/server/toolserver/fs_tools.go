package toolserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
	"github.com/vfsnap/vfsnap-go/internal/vfs"
	"github.com/vfsnap/vfsnap-go/pkg/vpath"
)

// Content encodings accepted by read_file and write_file.
const (
	encodingUTF8   = "utf-8"
	encodingBase64 = "base64"
)

// registerFSTools registers the nine filesystem tools.
func (s *Server) registerFSTools() {
	s.registerListDirectory()
	s.registerReadFile()
	s.registerWriteFile()
	s.registerMkdir()
	s.registerDelete()
	s.registerCopy()
	s.registerMove()
	s.registerFind()
	s.registerStorageStats()
}

// --- list_directory ---

type listDirectoryRequest struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
}

type listDirectoryResponse struct {
	Path  string            `json:"path"`
	Nodes []domain.NodeInfo `json:"nodes"`
	Count int               `json:"count"`
}

func (s *Server) registerListDirectory() {
	s.register(&mcp.Tool{
		Name:        "list_directory",
		Description: "List the contents of a directory in the virtual filesystem.",
		InputSchema: inputSchema(map[string]any{
			"path":      map[string]any{"type": "string", "description": "Directory path to list"},
			"recursive": map[string]any{"type": "boolean", "description": "List the whole subtree", "default": false},
		}, []string{"path"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req listDirectoryRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		p := vpath.Normalize(req.Path)

		var nodes []domain.NodeInfo
		if req.Recursive {
			paths, err := s.fs.Find(ctx, p, true)
			if err != nil {
				return nil, err
			}
			nodes = make([]domain.NodeInfo, 0, len(paths))
			for _, child := range paths {
				info, err := s.fs.GetNodeInfo(ctx, child)
				if err != nil {
					// Raced with a concurrent delete; skip the ghost.
					continue
				}
				nodes = append(nodes, info)
			}
		} else {
			var err error
			nodes, err = s.fs.Ls(ctx, p)
			if err != nil {
				return nil, err
			}
		}

		return listDirectoryResponse{Path: p, Nodes: nodes, Count: len(nodes)}, nil
	})
}

// --- read_file ---

type readFileRequest struct {
	Path     string `json:"path"`
	Encoding string `json:"encoding"`
}

type readFileResponse struct {
	Path     string `json:"path"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	Size     int    `json:"size"`
}

func (s *Server) registerReadFile() {
	s.register(&mcp.Tool{
		Name:        "read_file",
		Description: "Read a file from the virtual filesystem as text or base64.",
		InputSchema: inputSchema(map[string]any{
			"path":     map[string]any{"type": "string", "description": "File path to read"},
			"encoding": map[string]any{"type": "string", "enum": []string{encodingUTF8, encodingBase64}, "default": encodingUTF8},
		}, []string{"path"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req readFileRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		p := vpath.Normalize(req.Path)
		enc := req.Encoding
		if enc == "" {
			enc = encodingUTF8
		}

		data, err := s.fs.ReadFile(ctx, p)
		if err != nil {
			return nil, err
		}

		var content string
		switch enc {
		case encodingUTF8:
			content = string(data)
		case encodingBase64:
			content = base64.StdEncoding.EncodeToString(data)
		default:
			return nil, domain.ErrInvalidArgument.WithDetails("encoding must be utf-8 or base64")
		}

		return readFileResponse{Path: p, Encoding: enc, Content: content, Size: len(data)}, nil
	})
}

// --- write_file ---

type writeFileRequest struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type writeFileResponse struct {
	Path         string `json:"path"`
	BytesWritten int    `json:"bytes_written"`
}

func (s *Server) registerWriteFile() {
	s.register(&mcp.Tool{
		Name:        "write_file",
		Description: "Write a file, creating parent directories as needed. Content may be text or base64.",
		InputSchema: inputSchema(map[string]any{
			"path":     map[string]any{"type": "string", "description": "File path to write"},
			"content":  map[string]any{"type": "string", "description": "File content"},
			"encoding": map[string]any{"type": "string", "enum": []string{encodingUTF8, encodingBase64}, "default": encodingUTF8},
		}, []string{"path", "content"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req writeFileRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		p := vpath.Normalize(req.Path)
		enc := req.Encoding
		if enc == "" {
			enc = encodingUTF8
		}

		var data []byte
		switch enc {
		case encodingUTF8:
			data = []byte(req.Content)
		case encodingBase64:
			decoded, err := base64.StdEncoding.DecodeString(req.Content)
			if err != nil {
				return nil, domain.ErrInvalidArgument.WithDetails("content is not valid base64").WithCause(err)
			}
			data = decoded
		default:
			return nil, domain.ErrInvalidArgument.WithDetails("encoding must be utf-8 or base64")
		}

		if dir := path.Dir(p); dir != "/" {
			if err := vfs.EnsureDir(ctx, s.fs, dir); err != nil {
				return nil, err
			}
		}
		if err := s.fs.WriteFile(ctx, p, data); err != nil {
			return nil, err
		}

		return writeFileResponse{Path: p, BytesWritten: len(data)}, nil
	})
}

// --- mkdir ---

type mkdirRequest struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
}

type mkdirResponse struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
}

func (s *Server) registerMkdir() {
	s.register(&mcp.Tool{
		Name:        "mkdir",
		Description: "Create a directory, optionally with its full parent chain.",
		InputSchema: inputSchema(map[string]any{
			"path":      map[string]any{"type": "string", "description": "Directory path to create"},
			"recursive": map[string]any{"type": "boolean", "description": "Create missing parents too", "default": false},
		}, []string{"path"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req mkdirRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		p := vpath.Normalize(req.Path)

		if req.Recursive {
			if err := vfs.EnsureDir(ctx, s.fs, p); err != nil {
				return nil, err
			}
		} else {
			if err := s.fs.Mkdir(ctx, p); err != nil {
				return nil, err
			}
		}

		return mkdirResponse{Path: p, Created: true}, nil
	})
}

// --- delete ---

type deleteRequest struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
}

type deleteResponse struct {
	Path    string `json:"path"`
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

func (s *Server) registerDelete() {
	s.register(&mcp.Tool{
		Name:        "delete",
		Description: "Delete a file or directory. A missing path is reported, not an error.",
		InputSchema: inputSchema(map[string]any{
			"path":      map[string]any{"type": "string", "description": "Path to delete"},
			"recursive": map[string]any{"type": "boolean", "description": "Delete a directory and everything under it", "default": false},
		}, []string{"path"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req deleteRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		p := vpath.Normalize(req.Path)
		if p == "/" {
			return nil, domain.ErrInvalidArgument.WithDetails("cannot delete the root directory")
		}

		exists, err := s.fs.Exists(ctx, p)
		if err != nil {
			return nil, err
		}
		if !exists {
			return deleteResponse{Path: p, Deleted: false, Message: "path does not exist, nothing to delete"}, nil
		}

		info, err := s.fs.GetNodeInfo(ctx, p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir {
			if err := s.fs.Rm(ctx, p); err != nil {
				return nil, err
			}
			return deleteResponse{Path: p, Deleted: true, Message: "file deleted"}, nil
		}

		if !req.Recursive {
			if err := s.fs.Rmdir(ctx, p); err != nil {
				return nil, err
			}
			return deleteResponse{Path: p, Deleted: true, Message: "directory deleted"}, nil
		}

		removed, err := vfs.RemoveTree(ctx, s.fs, p)
		if err != nil {
			return nil, err
		}
		return deleteResponse{Path: p, Deleted: true, Message: fmt.Sprintf("deleted %d nodes", removed)}, nil
	})
}

// --- copy ---

type copyRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Recursive   bool   `json:"recursive"`
}

type copyResponse struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	FilesCopied int    `json:"files_copied"`
}

func (s *Server) registerCopy() {
	s.register(&mcp.Tool{
		Name:        "copy",
		Description: "Copy a file, or a directory subtree when recursive.",
		InputSchema: inputSchema(map[string]any{
			"source":      map[string]any{"type": "string", "description": "Path to copy from"},
			"destination": map[string]any{"type": "string", "description": "Path to copy to"},
			"recursive":   map[string]any{"type": "boolean", "description": "Copy a directory and everything under it", "default": false},
		}, []string{"source", "destination"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req copyRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		src := vpath.Normalize(req.Source)
		dst := vpath.Normalize(req.Destination)

		info, err := s.fs.GetNodeInfo(ctx, src)
		if err != nil {
			return nil, err
		}

		if !info.IsDir {
			if err := vfs.CopyFile(ctx, s.fs, src, dst); err != nil {
				return nil, err
			}
			return copyResponse{Source: src, Destination: dst, FilesCopied: 1}, nil
		}

		if !req.Recursive {
			return nil, domain.ErrInvalidArgument.WithDetails("source is a directory; set recursive to copy it")
		}
		if vpath.Under(dst, src) {
			return nil, domain.ErrInvalidArgument.WithDetails("destination is inside the source")
		}

		copied, err := vfs.CopyTree(ctx, s.fs, src, dst)
		if err != nil {
			return nil, err
		}
		return copyResponse{Source: src, Destination: dst, FilesCopied: copied}, nil
	})
}

// --- move ---

type moveRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type moveResponse struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Moved       bool   `json:"moved"`
}

func (s *Server) registerMove() {
	s.register(&mcp.Tool{
		Name:        "move",
		Description: "Move a file or directory to a new path.",
		InputSchema: inputSchema(map[string]any{
			"source":      map[string]any{"type": "string", "description": "Path to move from"},
			"destination": map[string]any{"type": "string", "description": "Path to move to"},
		}, []string{"source", "destination"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req moveRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		src := vpath.Normalize(req.Source)
		dst := vpath.Normalize(req.Destination)

		info, err := s.fs.GetNodeInfo(ctx, src)
		if err != nil {
			return nil, err
		}

		if !info.IsDir {
			if err := vfs.CopyFile(ctx, s.fs, src, dst); err != nil {
				return nil, err
			}
			if err := s.fs.Rm(ctx, src); err != nil {
				return nil, err
			}
			return moveResponse{Source: src, Destination: dst, Moved: true}, nil
		}

		if vpath.Under(dst, src) {
			return nil, domain.ErrInvalidArgument.WithDetails("destination is inside the source")
		}
		if _, err := vfs.CopyTree(ctx, s.fs, src, dst); err != nil {
			return nil, err
		}
		if _, err := vfs.RemoveTree(ctx, s.fs, src); err != nil {
			return nil, err
		}
		return moveResponse{Source: src, Destination: dst, Moved: true}, nil
	})
}

// --- find ---

type findRequest struct {
	Path      string `json:"path"`
	Pattern   string `json:"pattern"`
	Recursive *bool  `json:"recursive"`
}

type findResponse struct {
	Path    string   `json:"path"`
	Pattern string   `json:"pattern,omitempty"`
	Matches []string `json:"matches"`
	Count   int      `json:"count"`
}

func (s *Server) registerFind() {
	s.register(&mcp.Tool{
		Name:        "find",
		Description: "Find paths under a directory, optionally filtered by a glob pattern.",
		InputSchema: inputSchema(map[string]any{
			"path":      map[string]any{"type": "string", "description": "Directory to search under"},
			"pattern":   map[string]any{"type": "string", "description": "Glob matched against the full path or the base name"},
			"recursive": map[string]any{"type": "boolean", "description": "Search the whole subtree", "default": true},
		}, []string{"path"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req findRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		p := vpath.Normalize(req.Path)
		recursive := req.Recursive == nil || *req.Recursive

		paths, err := s.fs.Find(ctx, p, recursive)
		if err != nil {
			return nil, err
		}

		if req.Pattern != "" {
			matched := make([]string, 0, len(paths))
			for _, candidate := range paths {
				ok, err := matchPattern(req.Pattern, candidate)
				if err != nil {
					return nil, err
				}
				if ok {
					matched = append(matched, candidate)
				}
			}
			paths = matched
		}

		return findResponse{Path: p, Pattern: req.Pattern, Matches: paths, Count: len(paths)}, nil
	})
}

// --- get_storage_stats ---

func (s *Server) registerStorageStats() {
	s.register(&mcp.Tool{
		Name:        "get_storage_stats",
		Description: "Report total files, directories and bytes for the active backend.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return s.fs.Stats(ctx)
	})
}

// matchPattern wraps vpath.Match, mapping malformed globs to the
// argument error family so callers get a tool-level error code.
func matchPattern(pattern, p string) (bool, error) {
	ok, err := vpath.Match(pattern, p)
	if err != nil {
		return false, domain.ErrInvalidArgument.WithDetails("bad pattern: " + pattern)
	}
	return ok, nil
}
