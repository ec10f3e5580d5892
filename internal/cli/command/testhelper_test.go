package command

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/vfsnap/vfsnap-go/internal/cli/output"
	"github.com/vfsnap/vfsnap-go/internal/snapshot"
	"github.com/vfsnap/vfsnap-go/internal/vfs/memfs"
)

// newTestEnv builds an Env over a fresh in-memory backend. The snapshot
// manager runs ephemeral so the reserved namespace stays out of listings.
func newTestEnv(t *testing.T) *Env {
	t.Helper()

	fs := memfs.New()
	snaps, err := snapshot.NewManager(context.Background(), fs, snapshot.Config{
		Ephemeral: true,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return &Env{FS: fs, Snaps: snaps, Output: output.FormatTable}
}

// runCLI executes one command line against the shared env, returning
// everything written to the app writer. This is the same dispatch path
// the REPL uses, so commands see exactly one backend across calls.
func runCLI(t *testing.T, env *Env, args ...string) (string, error) {
	t.Helper()

	app := App()
	if env != nil {
		app.Metadata = map[string]any{"env": env}
	}

	buf := &bytes.Buffer{}
	app.Writer = buf
	app.ErrWriter = buf

	err := app.Run(append([]string{"vfsnap-cli"}, args...))
	return buf.String(), err
}
