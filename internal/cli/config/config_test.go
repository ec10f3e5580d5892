package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Provider != "local" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "local")
	}
	if cfg.Output != "table" {
		t.Errorf("Output = %q, want %q", cfg.Output, "table")
	}
	if cfg.Local.Root == "" {
		t.Error("Local.Root should have a default")
	}
	if cfg.Badger.Dir == "" {
		t.Error("Badger.Dir should have a default")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path == "" {
		t.Fatal("DefaultConfigPath should not be empty")
	}
	if !filepath.IsAbs(path) {
		t.Error("path should be absolute")
	}
	if !strings.HasSuffix(path, filepath.Join(".vfsnap", "cli.yaml")) {
		t.Errorf("path = %q, should end with .vfsnap/cli.yaml", path)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/cli.yaml")
	if err != nil {
		t.Fatalf("Load should not error for a missing file: %v", err)
	}
	if cfg.Provider != "local" {
		t.Errorf("Provider = %q, want default %q", cfg.Provider, "local")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	payload := `provider: badger
badger:
  dir: /tmp/vfsnap-badger
output: json
`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Provider != "badger" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "badger")
	}
	if cfg.Badger.Dir != "/tmp/vfsnap-badger" {
		t.Errorf("Badger.Dir = %q, want %q", cfg.Badger.Dir, "/tmp/vfsnap-badger")
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want %q", cfg.Output, "json")
	}
	// Untouched fields keep their defaults.
	if cfg.Local.Root == "" {
		t.Error("Local.Root default should survive a partial file")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("provider: local\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("VFSNAP_PROVIDER", "memory")
	t.Setenv("VFSNAP_OUTPUT", "json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Provider != "memory" {
		t.Errorf("Provider = %q, want env override %q", cfg.Provider, "memory")
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want env override %q", cfg.Output, "json")
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "cli.yaml")

	if err := Save(Default(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestSave_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")

	if err := Save(Default(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")

	in := &CLIConfig{
		Provider: "badger",
		Local:    LocalConfig{Root: "/srv/vfsnap/root"},
		Badger:   BadgerConfig{Dir: "/srv/vfsnap/badger"},
		Output:   "json",
	}
	if err := Save(in, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if out.Provider != in.Provider {
		t.Errorf("Provider = %q, want %q", out.Provider, in.Provider)
	}
	if out.Local.Root != in.Local.Root {
		t.Errorf("Local.Root = %q, want %q", out.Local.Root, in.Local.Root)
	}
	if out.Badger.Dir != in.Badger.Dir {
		t.Errorf("Badger.Dir = %q, want %q", out.Badger.Dir, in.Badger.Dir)
	}
	if out.Output != in.Output {
		t.Errorf("Output = %q, want %q", out.Output, in.Output)
	}
}
