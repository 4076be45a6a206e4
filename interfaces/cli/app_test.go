package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "packsync") {
		t.Errorf("expected version output, got %q", stdout.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"definitely-not-a-command"}); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestBuildClientRejectsBadBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packsync.yaml")
	cfg := `
server:
  url: https://xsoar.example.com
  api_token: tok
artifacts:
  backend: ftp
`
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), []string{"packs", "list", "-c", path})
	if err == nil || !strings.Contains(err.Error(), "unknown artifacts backend") {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}

func TestMissingDefaultConfigFallsBackToEnv(t *testing.T) {
	t.Setenv("DEMISTO_API_KEY", "")
	t.Setenv("DEMISTO_BASE_URL", "")
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	// Default config file absent and no env credentials: the client
	// constructor is the one to complain, not the config loader.
	err := app.ExecuteWithArgs(context.Background(), []string{"packs", "list"})
	if err == nil || !strings.Contains(err.Error(), "api token") {
		t.Errorf("expected credentials error, got %v", err)
	}
}
