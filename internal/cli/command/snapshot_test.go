package command

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
)

func TestSnapshotCommand(t *testing.T) {
	cmd := SnapshotCommand()
	if cmd == nil {
		t.Fatal("SnapshotCommand returned nil")
	}
	if cmd.Name != "snapshot" {
		t.Errorf("Name = %q, want %q", cmd.Name, "snapshot")
	}

	hasAlias := false
	for _, a := range cmd.Aliases {
		if a == "snap" {
			hasAlias = true
		}
	}
	if !hasAlias {
		t.Error("missing alias: snap")
	}

	subNames := make(map[string]bool)
	for _, sub := range cmd.Subcommands {
		subNames[sub.Name] = true
	}
	for _, name := range []string{"create", "restore", "list", "export", "import"} {
		if !subNames[name] {
			t.Errorf("missing subcommand: %s", name)
		}
	}
}

func TestSnapshotCreateAndList(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/a.txt", "hello")

	out, err := runCLI(t, env, "snapshot", "create", "--description", "before upgrade", "base")
	if err != nil {
		t.Fatalf("snapshot create failed: %v", err)
	}
	for _, want := range []string{"name", "base", "file_count", "1"} {
		if !strings.Contains(out, want) {
			t.Errorf("create output missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, env, "snapshot", "list")
	if err != nil {
		t.Fatalf("snapshot list failed: %v", err)
	}
	for _, want := range []string{"NAME", "CREATED", "FILE_COUNT", "base"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
	// The description column is wide-only
	if strings.Contains(out, "DESCRIPTION") {
		t.Errorf("list output should not show DESCRIPTION without --wide:\n%s", out)
	}

	out, err = runCLI(t, env, "--wide", "snapshot", "list")
	if err != nil {
		t.Fatalf("snapshot list failed: %v", err)
	}
	for _, want := range []string{"DESCRIPTION", "before upgrade"} {
		if !strings.Contains(out, want) {
			t.Errorf("wide list output missing %q:\n%s", want, out)
		}
	}
}

func TestSnapshotCreate_RequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "snapshot", "create")
	if err == nil || !strings.Contains(err.Error(), "snapshot name required") {
		t.Errorf("err = %v, want name required", err)
	}
}

func TestSnapshotCreate_InvalidName(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "snapshot", "create", "bad/name")
	if !errors.Is(err, domain.ErrSnapshotNameInvalid) {
		t.Errorf("err = %v, want ErrSnapshotNameInvalid", err)
	}
}

func TestSnapshotList_Empty(t *testing.T) {
	env := newTestEnv(t)

	out, err := runCLI(t, env, "snapshot", "list")
	if err != nil {
		t.Fatalf("snapshot list failed: %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Errorf("empty list output = %q, want nothing", out)
	}
}

func TestSnapshotRestore(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/a.txt", "v1")
	mustRun(t, env, "snapshot", "create", "base")

	// Drift: change a file, add another
	mustRun(t, env, "fs", "write", "/a.txt", "v2")
	mustRun(t, env, "fs", "write", "/extra.txt", "x")

	out, err := runCLI(t, env, "snapshot", "restore", "--force", "base")
	if err != nil {
		t.Fatalf("snapshot restore failed: %v", err)
	}
	for _, want := range []string{"deleted", "written"} {
		if !strings.Contains(out, want) {
			t.Errorf("restore output missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, env, "fs", "cat", "/a.txt")
	if err != nil {
		t.Fatalf("fs cat failed: %v", err)
	}
	if out != "v1" {
		t.Errorf("restored content = %q, want %q", out, "v1")
	}
	if _, err := runCLI(t, env, "fs", "cat", "/extra.txt"); !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("extra file should be deleted, err = %v", err)
	}
}

func TestSnapshotRestore_RequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "snapshot", "restore", "--force")
	if err == nil || !strings.Contains(err.Error(), "snapshot name required") {
		t.Errorf("err = %v, want name required", err)
	}
}

func TestSnapshotRestore_Missing(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "snapshot", "restore", "--force", "nope")
	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestSnapshotExportImport(t *testing.T) {
	env := newTestEnv(t)

	mustRun(t, env, "fs", "write", "/a.txt", "hello")
	mustRun(t, env, "snapshot", "create", "base")

	file := filepath.Join(t.TempDir(), "base.json")
	out, err := runCLI(t, env, "snapshot", "export", "base", file)
	if err != nil {
		t.Fatalf("snapshot export failed: %v", err)
	}
	if !strings.Contains(out, "Exported snapshot 'base' to "+file) {
		t.Errorf("export output = %q", out)
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("exported file missing: %v", err)
	}

	out, err = runCLI(t, env, "snapshot", "import", "--name", "copy", file)
	if err != nil {
		t.Fatalf("snapshot import failed: %v", err)
	}
	if !strings.Contains(out, "copy") {
		t.Errorf("import output missing new name:\n%s", out)
	}

	out, err = runCLI(t, env, "snapshot", "list")
	if err != nil {
		t.Fatalf("snapshot list failed: %v", err)
	}
	for _, want := range []string{"base", "copy"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestSnapshotExport_RequiresArgs(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "snapshot", "export", "base")
	if err == nil || !strings.Contains(err.Error(), "snapshot name and output file required") {
		t.Errorf("err = %v, want usage error", err)
	}
}

func TestSnapshotExport_Missing(t *testing.T) {
	env := newTestEnv(t)

	file := filepath.Join(t.TempDir(), "nope.json")
	_, err := runCLI(t, env, "snapshot", "export", "nope", file)
	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestSnapshotImport_RequiresFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, env, "snapshot", "import")
	if err == nil || !strings.Contains(err.Error(), "input file required") {
		t.Errorf("err = %v, want file required", err)
	}
}
