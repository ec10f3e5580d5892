package vfs

import (
	"context"
	"errors"
	"path"
	"reflect"
	"sort"
	"testing"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
)

// fakeFS is a minimal shallow backend for exercising EnsureDir and Extend
// without pulling in a real backend package.
type fakeFS struct {
	files  map[string][]byte
	dirs   map[string]bool
	mkdirs []string // order of Mkdir calls
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		files: map[string][]byte{},
		dirs:  map[string]bool{"/": true},
	}
}

func (f *fakeFS) Exists(_ context.Context, p string) (bool, error) {
	if f.dirs[p] {
		return true, nil
	}
	_, ok := f.files[p]
	return ok, nil
}

func (f *fakeFS) Ls(_ context.Context, dir string) ([]domain.NodeInfo, error) {
	if !f.dirs[dir] {
		return nil, domain.ErrPathNotFound.WithDetails(dir)
	}
	var nodes []domain.NodeInfo
	appendChild := func(p string, isDir bool, size int64) {
		if path.Dir(p) != dir {
			return
		}
		nodes = append(nodes, domain.NodeInfo{Path: p, Name: path.Base(p), IsDir: isDir, Size: size})
	}
	for p := range f.dirs {
		if p != "/" {
			appendChild(p, true, 0)
		}
	}
	for p, data := range f.files {
		appendChild(p, false, int64(len(data)))
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
	return nodes, nil
}

func (f *fakeFS) ReadFile(_ context.Context, p string) ([]byte, error) {
	data, ok := f.files[p]
	if !ok {
		return nil, domain.ErrPathNotFound.WithDetails(p)
	}
	return data, nil
}

func (f *fakeFS) WriteFile(_ context.Context, p string, data []byte) error {
	f.files[p] = data
	return nil
}

func (f *fakeFS) Mkdir(_ context.Context, p string) error {
	if f.dirs[p] {
		return domain.ErrPathExists.WithDetails(p)
	}
	f.dirs[p] = true
	f.mkdirs = append(f.mkdirs, p)
	return nil
}

func (f *fakeFS) Rm(_ context.Context, p string) error {
	delete(f.files, p)
	return nil
}

func (f *fakeFS) Rmdir(_ context.Context, p string) error {
	delete(f.dirs, p)
	return nil
}

func (f *fakeFS) GetNodeInfo(_ context.Context, p string) (domain.NodeInfo, error) {
	if f.dirs[p] {
		return domain.NodeInfo{Path: p, Name: path.Base(p), IsDir: true}, nil
	}
	if data, ok := f.files[p]; ok {
		return domain.NodeInfo{Path: p, Name: path.Base(p), Size: int64(len(data))}, nil
	}
	return domain.NodeInfo{}, domain.ErrPathNotFound.WithDetails(p)
}

func (f *fakeFS) Stats(_ context.Context) (domain.StorageStats, error) {
	return domain.StorageStats{Provider: "fake"}, nil
}

func (f *fakeFS) Close() error { return nil }

func TestEnsureDir(t *testing.T) {
	fs := newFakeFS()
	ctx := context.Background()

	if err := EnsureDir(ctx, fs, "/a/b/c"); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}

	want := []string{"/a", "/a/b", "/a/b/c"}
	if !reflect.DeepEqual(fs.mkdirs, want) {
		t.Errorf("mkdir order = %v, want %v", fs.mkdirs, want)
	}

	// Idempotent: nothing new is created on repeat.
	if err := EnsureDir(ctx, fs, "/a/b/c"); err != nil {
		t.Fatalf("EnsureDir repeat: %v", err)
	}
	if len(fs.mkdirs) != 3 {
		t.Errorf("mkdirs after repeat = %d, want 3", len(fs.mkdirs))
	}

	// Root is a no-op.
	if err := EnsureDir(ctx, fs, "/"); err != nil {
		t.Fatalf("EnsureDir(/): %v", err)
	}
}

func TestExtend_FindShallow(t *testing.T) {
	fs := newFakeFS()
	ctx := context.Background()
	fs.dirs["/a"] = true
	fs.files["/a/x.txt"] = []byte("x")
	fs.files["/top.txt"] = []byte("t")

	full := Extend(fs)

	got, err := full.Find(ctx, "/", false)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []string{"/a", "/top.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Find(/, shallow) = %v, want %v", got, want)
	}
}

func TestExtend_FindRecursive(t *testing.T) {
	fs := newFakeFS()
	ctx := context.Background()
	for _, d := range []string{"/a", "/a/b", "/c"} {
		fs.dirs[d] = true
	}
	fs.files["/a/b/deep.txt"] = []byte("d")
	fs.files["/a/one.txt"] = []byte("1")
	fs.files["/root.txt"] = []byte("r")

	full := Extend(fs)

	got, err := full.Find(ctx, "/", true)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []string{"/a", "/a/b", "/a/b/deep.txt", "/a/one.txt", "/c", "/root.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Find(/, recursive) = %v, want %v", got, want)
	}

	// Subtree enumeration.
	got, err = full.Find(ctx, "/a", true)
	if err != nil {
		t.Fatalf("Find(/a): %v", err)
	}
	want = []string{"/a/b", "/a/b/deep.txt", "/a/one.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Find(/a, recursive) = %v, want %v", got, want)
	}
}

func TestExtend_FindMissingRoot(t *testing.T) {
	fs := newFakeFS()
	full := Extend(fs)

	_, err := full.Find(context.Background(), "/nope", true)
	if !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("Find on missing dir = %v, want ErrPathNotFound", err)
	}
}
