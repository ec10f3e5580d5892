package vfs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
)

func TestCopyFile(t *testing.T) {
	fs := newFakeFS()
	ctx := context.Background()
	fs.files["/src.txt"] = []byte("payload")

	full := Extend(fs)
	if err := CopyFile(ctx, full, "/src.txt", "/sub/dst.txt"); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}

	if !bytes.Equal(fs.files["/sub/dst.txt"], []byte("payload")) {
		t.Errorf("destination content = %q, want %q", fs.files["/sub/dst.txt"], "payload")
	}
	if !fs.dirs["/sub"] {
		t.Error("destination parent was not created")
	}
	if _, ok := fs.files["/src.txt"]; !ok {
		t.Error("source should survive a copy")
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	full := Extend(newFakeFS())

	err := CopyFile(context.Background(), full, "/nope.txt", "/dst.txt")
	if !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("CopyFile missing source = %v, want ErrPathNotFound", err)
	}
}

func TestCopyTree(t *testing.T) {
	fs := newFakeFS()
	ctx := context.Background()
	fs.dirs["/app"] = true
	fs.dirs["/app/sub"] = true
	fs.files["/app/a.txt"] = []byte("a")
	fs.files["/app/sub/b.txt"] = []byte("b")

	full := Extend(fs)
	copied, err := CopyTree(ctx, full, "/app", "/backup")
	if err != nil {
		t.Fatalf("CopyTree: %v", err)
	}
	if copied != 2 {
		t.Errorf("copied = %d, want 2", copied)
	}

	if !bytes.Equal(fs.files["/backup/a.txt"], []byte("a")) {
		t.Errorf("/backup/a.txt = %q, want %q", fs.files["/backup/a.txt"], "a")
	}
	if !bytes.Equal(fs.files["/backup/sub/b.txt"], []byte("b")) {
		t.Errorf("/backup/sub/b.txt = %q, want %q", fs.files["/backup/sub/b.txt"], "b")
	}
	if !fs.dirs["/backup/sub"] {
		t.Error("subdirectory was not recreated under the destination")
	}
	if _, ok := fs.files["/app/a.txt"]; !ok {
		t.Error("source tree should survive a copy")
	}
}

func TestRemoveTree(t *testing.T) {
	fs := newFakeFS()
	ctx := context.Background()
	fs.dirs["/app"] = true
	fs.dirs["/app/sub"] = true
	fs.files["/app/a.txt"] = []byte("a")
	fs.files["/app/sub/b.txt"] = []byte("b")

	full := Extend(fs)
	removed, err := RemoveTree(ctx, full, "/app")
	if err != nil {
		t.Fatalf("RemoveTree: %v", err)
	}
	// Two files, one subdirectory, plus the root itself.
	if removed != 4 {
		t.Errorf("removed = %d, want 4", removed)
	}

	if fs.dirs["/app"] || fs.dirs["/app/sub"] {
		t.Error("directories should be gone")
	}
	if len(fs.files) != 0 {
		t.Errorf("files left behind: %v", fs.files)
	}
}

func TestRemoveTree_MissingRoot(t *testing.T) {
	full := Extend(newFakeFS())

	_, err := RemoveTree(context.Background(), full, "/nope")
	if !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("RemoveTree missing root = %v, want ErrPathNotFound", err)
	}
}
