package command

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
)

func TestFSCommand(t *testing.T) {
	cmd := FSCommand()
	if cmd == nil {
		t.Fatal("FSCommand returned nil")
	}
	if cmd.Name != "fs" {
		t.Errorf("Name = %q, want %q", cmd.Name, "fs")
	}

	subNames := make(map[string]bool)
	for _, sub := range cmd.Subcommands {
		subNames[sub.Name] = true
	}
	for _, name := range []string{"ls", "cat", "write", "mkdir", "rm", "cp", "mv", "find", "stats"} {
		if !subNames[name] {
			t.Errorf("missing subcommand: %s", name)
		}
	}
}

func TestFSWriteAndCat(t *testing.T) {
	env := newTestEnv(t)

	out, err := runCLI(t, env, "fs", "write", "/docs/a.txt", "hello")
	if err != nil {
		t.Fatalf("fs write failed: %v", err)
	}
	if !strings.Contains(out, "Wrote 5 bytes to /docs/a.txt") {
		t.Errorf("write output = %q", out)
	}

	// The parent directory is created on demand
	out, err = runCLI(t, env, "fs", "cat", "/docs/a.txt")
	if err != nil {
		t.Fatalf("fs cat failed: %v", err)
	}
	if out != "hello" {
		t.Errorf("cat output = %q, want %q", out, "hello")
	}
}

func TestFSWrite_FromHostFile(t *testing.T) {
	env := newTestEnv(t)

	src := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(src, []byte("from host"), 0o600); err != nil {
		t.Fatalf("writing host file: %v", err)
	}

	if _, err := runCLI(t, env, "fs", "write", "--from", src, "/a.txt"); err != nil {
		t.Fatalf("fs write --from failed: %v", err)
	}

	out, err := runCLI(t, env, "fs", "cat", "/a.txt")
	if err != nil {
		t.Fatalf("fs cat failed: %v", err)
	}
	if out != "from host" {
		t.Errorf("cat output = %q, want %q", out, "from host")
	}
}

func TestFSWrite_RequiresContent(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "fs", "write", "/a.txt")
	if err == nil || !strings.Contains(err.Error(), "content required") {
		t.Errorf("err = %v, want content required", err)
	}
}

func TestFSCat_RequiresPath(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "fs", "cat")
	if err == nil || !strings.Contains(err.Error(), "path required") {
		t.Errorf("err = %v, want path required", err)
	}
}

func TestFSCat_Missing(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "fs", "cat", "/nope.txt")
	if !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("err = %v, want ErrPathNotFound", err)
	}
}

func TestFSLs(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/a.txt", "hello")
	mustRun(t, env, "fs", "mkdir", "/sub")

	out, err := runCLI(t, env, "fs", "ls", "/")
	if err != nil {
		t.Fatalf("fs ls failed: %v", err)
	}

	for _, want := range []string{"PATH", "TYPE", "SIZE", "/a.txt", "file", "/sub", "dir"} {
		if !strings.Contains(out, want) {
			t.Errorf("ls output missing %q:\n%s", want, out)
		}
	}
	// The modified column is wide-only
	if strings.Contains(out, "MODIFIED") {
		t.Errorf("ls output should not show MODIFIED without --wide:\n%s", out)
	}
}

func TestFSLs_Wide(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/a.txt", "hello")

	out, err := runCLI(t, env, "--wide", "fs", "ls", "/")
	if err != nil {
		t.Fatalf("fs ls failed: %v", err)
	}
	if !strings.Contains(out, "MODIFIED") {
		t.Errorf("wide ls output missing MODIFIED:\n%s", out)
	}
}

func TestFSLs_Recursive(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/docs/deep/a.txt", "x")

	out, err := runCLI(t, env, "fs", "ls", "-r", "/")
	if err != nil {
		t.Fatalf("fs ls -r failed: %v", err)
	}
	for _, want := range []string{"/docs", "/docs/deep", "/docs/deep/a.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("recursive ls missing %q:\n%s", want, out)
		}
	}
}

func TestFSLs_Missing(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "fs", "ls", "/nope")
	if !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("err = %v, want ErrPathNotFound", err)
	}
}

func TestFSMkdir(t *testing.T) {
	env := newTestEnv(t)

	out, err := runCLI(t, env, "fs", "mkdir", "/data")
	if err != nil {
		t.Fatalf("fs mkdir failed: %v", err)
	}
	if !strings.Contains(out, "Created /data") {
		t.Errorf("mkdir output = %q", out)
	}

	// Without --recursive a missing parent is an error
	if _, err := runCLI(t, env, "fs", "mkdir", "/a/b/c"); !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("err = %v, want ErrPathNotFound for missing parent", err)
	}

	if _, err := runCLI(t, env, "fs", "mkdir", "-r", "/a/b/c"); err != nil {
		t.Fatalf("fs mkdir -r failed: %v", err)
	}
	out, err = runCLI(t, env, "fs", "ls", "/a/b")
	if err != nil {
		t.Fatalf("fs ls failed: %v", err)
	}
	if !strings.Contains(out, "/a/b/c") {
		t.Errorf("nested directory not created:\n%s", out)
	}
}

func TestFSMkdir_Exists(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "mkdir", "/data")
	if _, err := runCLI(t, env, "fs", "mkdir", "/data"); !errors.Is(err, domain.ErrPathExists) {
		t.Errorf("err = %v, want ErrPathExists", err)
	}
}

func TestFSRm_File(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/a.txt", "hello")

	out, err := runCLI(t, env, "fs", "rm", "/a.txt")
	if err != nil {
		t.Fatalf("fs rm failed: %v", err)
	}
	if !strings.Contains(out, "Removed /a.txt") {
		t.Errorf("rm output = %q", out)
	}

	if _, err := runCLI(t, env, "fs", "cat", "/a.txt"); !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("file should be gone, err = %v", err)
	}
}

func TestFSRm_Missing(t *testing.T) {
	env := newTestEnv(t)

	if _, err := runCLI(t, env, "fs", "rm", "/nope"); !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("err = %v, want ErrPathNotFound", err)
	}
}

func TestFSRm_Root(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "fs", "rm", "/")
	if err == nil || !strings.Contains(err.Error(), "cannot remove the root directory") {
		t.Errorf("err = %v, want root guard", err)
	}
}

func TestFSRm_NonEmptyDir(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/data/a.txt", "x")

	if _, err := runCLI(t, env, "fs", "rm", "/data"); !errors.Is(err, domain.ErrDirNotEmpty) {
		t.Errorf("err = %v, want ErrDirNotEmpty", err)
	}
}

func TestFSRm_Recursive(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/data/a.txt", "x")
	mustRun(t, env, "fs", "write", "/data/b.txt", "y")

	out, err := runCLI(t, env, "fs", "rm", "-r", "/data")
	if err != nil {
		t.Fatalf("fs rm -r failed: %v", err)
	}
	// Two files plus the directory itself
	if !strings.Contains(out, "Removed /data (3 nodes)") {
		t.Errorf("rm -r output = %q", out)
	}

	if _, err := runCLI(t, env, "fs", "ls", "/data"); !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("directory should be gone, err = %v", err)
	}
}

func TestFSCp_File(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/a.txt", "hello")

	out, err := runCLI(t, env, "fs", "cp", "/a.txt", "/b.txt")
	if err != nil {
		t.Fatalf("fs cp failed: %v", err)
	}
	if !strings.Contains(out, "Copied /a.txt to /b.txt") {
		t.Errorf("cp output = %q", out)
	}

	// Source survives, destination matches
	for _, p := range []string{"/a.txt", "/b.txt"} {
		out, err := runCLI(t, env, "fs", "cat", p)
		if err != nil {
			t.Fatalf("fs cat %s failed: %v", p, err)
		}
		if out != "hello" {
			t.Errorf("cat %s = %q, want %q", p, out, "hello")
		}
	}
}

func TestFSCp_DirWithoutRecursive(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "mkdir", "/src")

	_, err := runCLI(t, env, "fs", "cp", "/src", "/dst")
	if err == nil || !strings.Contains(err.Error(), "use --recursive") {
		t.Errorf("err = %v, want recursive hint", err)
	}
}

func TestFSCp_Recursive(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/src/a.txt", "one")
	mustRun(t, env, "fs", "write", "/src/sub/b.txt", "two")

	out, err := runCLI(t, env, "fs", "cp", "-r", "/src", "/dst")
	if err != nil {
		t.Fatalf("fs cp -r failed: %v", err)
	}
	if !strings.Contains(out, "Copied /src to /dst (2 files)") {
		t.Errorf("cp -r output = %q", out)
	}

	out, err = runCLI(t, env, "fs", "cat", "/dst/sub/b.txt")
	if err != nil {
		t.Fatalf("fs cat failed: %v", err)
	}
	if out != "two" {
		t.Errorf("copied content = %q, want %q", out, "two")
	}
}

func TestFSCp_DestinationInsideSource(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/src/a.txt", "x")

	_, err := runCLI(t, env, "fs", "cp", "-r", "/src", "/src/nested")
	if err == nil || !strings.Contains(err.Error(), "destination is inside the source") {
		t.Errorf("err = %v, want containment guard", err)
	}
}

func TestFSCp_RequiresTwoArgs(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "fs", "cp", "/only")
	if err == nil || !strings.Contains(err.Error(), "source and destination required") {
		t.Errorf("err = %v, want usage error", err)
	}
}

func TestFSMv_File(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/a.txt", "hello")

	out, err := runCLI(t, env, "fs", "mv", "/a.txt", "/b.txt")
	if err != nil {
		t.Fatalf("fs mv failed: %v", err)
	}
	if !strings.Contains(out, "Moved /a.txt to /b.txt") {
		t.Errorf("mv output = %q", out)
	}

	if _, err := runCLI(t, env, "fs", "cat", "/a.txt"); !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("source should be gone, err = %v", err)
	}
	out, err = runCLI(t, env, "fs", "cat", "/b.txt")
	if err != nil {
		t.Fatalf("fs cat failed: %v", err)
	}
	if out != "hello" {
		t.Errorf("moved content = %q, want %q", out, "hello")
	}
}

func TestFSMv_Dir(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/src/sub/a.txt", "x")

	if _, err := runCLI(t, env, "fs", "mv", "/src", "/moved"); err != nil {
		t.Fatalf("fs mv failed: %v", err)
	}

	if _, err := runCLI(t, env, "fs", "ls", "/src"); !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("source tree should be gone, err = %v", err)
	}
	out, err := runCLI(t, env, "fs", "cat", "/moved/sub/a.txt")
	if err != nil {
		t.Fatalf("fs cat failed: %v", err)
	}
	if out != "x" {
		t.Errorf("moved content = %q, want %q", out, "x")
	}
}

func TestFSFind(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/docs/a.txt", "x")
	mustRun(t, env, "fs", "write", "/docs/b.log", "y")
	mustRun(t, env, "fs", "write", "/docs/sub/c.txt", "z")

	out, err := runCLI(t, env, "fs", "find", "/docs")
	if err != nil {
		t.Fatalf("fs find failed: %v", err)
	}
	for _, want := range []string{"/docs/a.txt", "/docs/b.log", "/docs/sub", "/docs/sub/c.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("find output missing %q:\n%s", want, out)
		}
	}
}

func TestFSFind_Pattern(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/docs/a.txt", "x")
	mustRun(t, env, "fs", "write", "/docs/b.log", "y")
	mustRun(t, env, "fs", "write", "/docs/sub/c.txt", "z")

	out, err := runCLI(t, env, "fs", "find", "--pattern", "*.txt", "/docs")
	if err != nil {
		t.Fatalf("fs find --pattern failed: %v", err)
	}
	// Base-name matching finds .txt files at any depth
	for _, want := range []string{"/docs/a.txt", "/docs/sub/c.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("find output missing %q:\n%s", want, out)
		}
	}
	for _, reject := range []string{"b.log", "/docs/sub\n"} {
		if strings.Contains(out, reject) {
			t.Errorf("find output should not contain %q:\n%s", reject, out)
		}
	}
}

func TestFSFind_BadPattern(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "fs", "find", "--pattern", "[", "/")
	if err == nil || !strings.Contains(err.Error(), "bad pattern") {
		t.Errorf("err = %v, want bad pattern", err)
	}
}

func TestFSStats(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/a.txt", "hello")

	out, err := runCLI(t, env, "fs", "stats")
	if err != nil {
		t.Fatalf("fs stats failed: %v", err)
	}
	for _, want := range []string{"provider", "memory", "total_files"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestFSLs_JSONOutput(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/a.txt", "hello")

	out, err := runCLI(t, env, "--output", "json", "fs", "ls", "/")
	if err != nil {
		t.Fatalf("fs ls failed: %v", err)
	}

	var rows []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		Size int64  `json:"size"`
	}
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Path != "/a.txt" || rows[0].Type != "file" || rows[0].Size != 5 {
		t.Errorf("row = %+v", rows[0])
	}
}

// mustRun executes a command line and fails the test on error.
func mustRun(t *testing.T, env *Env, args ...string) {
	t.Helper()
	if out, err := runCLI(t, env, args...); err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
}
