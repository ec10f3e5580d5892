package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"testing"

	"github.com/vfsnap/vfsnap-go/internal/snapshot"
	"github.com/vfsnap/vfsnap-go/internal/vfs"
	"github.com/vfsnap/vfsnap-go/internal/vfs/badgerfs"
)

// SmallFileCounts defines the tree sizes for quick benchmarks.
var SmallFileCounts = []int{100, 1000}

// LargeFileCounts for benchmarks skipped in short mode.
var LargeFileCounts = []int{10000, 20000}

func benchLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openFS builds a backend for benchmarking. Badger runs in memory so the
// numbers measure the engine, not the host disk.
func openFS(b *testing.B, provider string) vfs.FileSystem {
	b.Helper()

	opts := vfs.Options{Provider: provider, Logger: benchLogger()}
	if provider == "badger" {
		opts.Badger = badgerfs.Config{InMemory: true}
	}

	fs, err := vfs.Open(opts)
	if err != nil {
		b.Fatalf("open %s backend: %v", provider, err)
	}
	b.Cleanup(func() { fs.Close() })
	return fs
}

// prefillFS writes count files spread over ten directories and returns
// their paths.
func prefillFS(b *testing.B, fs vfs.FileSystem, count int) []string {
	b.Helper()

	ctx := context.Background()
	paths := make([]string, count)
	for i := 0; i < count; i++ {
		dir := fmt.Sprintf("/data/dir%02d", i%10)
		if err := vfs.EnsureDir(ctx, fs, dir); err != nil {
			b.Fatalf("EnsureDir(%q): %v", dir, err)
		}
		p := fmt.Sprintf("%s/file%05d.txt", dir, i)
		if err := fs.WriteFile(ctx, p, benchPayload(i)); err != nil {
			b.Fatalf("WriteFile(%q): %v", p, err)
		}
		paths[i] = p
	}
	return paths
}

// benchPayload builds a deterministic file body of a few hundred bytes.
func benchPayload(i int) []byte {
	line := fmt.Sprintf("record %06d: the quick brown fox jumps over the lazy dog\n", i)
	return []byte(line + line + line)
}

// newBenchManager creates a snapshot manager over fs.
func newBenchManager(b *testing.B, fs vfs.FileSystem) *snapshot.Manager {
	b.Helper()

	m, err := snapshot.NewManager(context.Background(), fs, snapshot.Config{Logger: benchLogger()})
	if err != nil {
		b.Fatalf("NewManager: %v", err)
	}
	return m
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithFileCounts runs a benchmark function with various tree sizes.
func runWithFileCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("files_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
