package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigCommand(t *testing.T) {
	cmd := ConfigCommand()
	if cmd == nil {
		t.Fatal("ConfigCommand returned nil")
	}
	if cmd.Name != "config" {
		t.Errorf("Name = %q, want %q", cmd.Name, "config")
	}

	subNames := make(map[string]bool)
	for _, sub := range cmd.Subcommands {
		subNames[sub.Name] = true
	}
	for _, name := range []string{"show", "init", "path"} {
		if !subNames[name] {
			t.Errorf("missing subcommand: %s", name)
		}
	}
}

func TestConfigPath(t *testing.T) {
	out, err := runCLI(t, nil, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if !strings.Contains(out, filepath.Join(".vfsnap", "cli.yaml")) {
		t.Errorf("config path output = %q", out)
	}
}

func TestConfigShow_Defaults(t *testing.T) {
	// Point at a missing file so only the built-in defaults apply
	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")

	out, err := runCLI(t, nil, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	for _, want := range []string{"KEY", "VALUE", "provider", "local", "output", "table"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShow_FlagOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")

	out, err := runCLI(t, nil, "--config", cfgPath, "--provider", "badger", "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "badger") {
		t.Errorf("show output missing flag override:\n%s", out)
	}
}

func TestConfigShow_JSON(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")

	out, err := runCLI(t, nil, "--config", cfgPath, "--output", "json", "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	var m map[string]string
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if m["provider"] != "local" {
		t.Errorf("provider = %q, want %q", m["provider"], "local")
	}
	if m["output"] != "json" {
		t.Errorf("output = %q, want %q", m["output"], "json")
	}
}

func TestConfigInit(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")

	out, err := runCLI(t, nil, "--config", cfgPath, "--provider", "badger", "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "Wrote "+cfgPath) {
		t.Errorf("init output = %q", out)
	}

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if !strings.Contains(string(data), "provider: badger") {
		t.Errorf("config file missing provider:\n%s", data)
	}

	// The written file now supplies the defaults
	out, err = runCLI(t, nil, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "badger") {
		t.Errorf("show output should reflect the written file:\n%s", out)
	}
}
