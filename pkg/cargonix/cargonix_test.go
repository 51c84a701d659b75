package cargonix

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// installStubTools puts fake nix-prefetch-url / nix-prefetch-git binaries on
// PATH and returns a stub build-executor path that materializes foo with both
// files and bar without its lockfile.
func installStubTools(t *testing.T) (executor string) {
	t.Helper()
	binDir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(binDir, name)
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
			t.Fatal(err)
		}
		return path
	}

	write("nix-prefetch-url", "echo sha256-fakeFOO\n")
	write("nix-prefetch-git", `echo '{"sha256": "sha256-fakeBAR"}'`+"\n")
	executor = write("fake-nix", `for arg; do out="$arg"; done
mkdir -p "$out/foo" "$out/bar"
touch "$out/foo/Cargo.toml" "$out/foo/Cargo.lock"
touch "$out/bar/Cargo.toml"
`)

	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return executor
}

func newTestClient(t *testing.T, executor string) *Client {
	t.Helper()
	dir := t.TempDir()
	client, err := New(Options{
		ConfigPath: filepath.Join(dir, "cargonix.yaml"),
		Executor:   executor,
		CacheDir:   t.TempDir(),
		Logger:     log.New(io.Discard),
	})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestNewRequiresConfigPath(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error for missing ConfigPath")
	}
}

func TestAddGenerateFetchDiscoverScenario(t *testing.T) {
	ctx := context.Background()
	executor := installStubTools(t)
	client := newTestClient(t, executor)

	if err := client.AddCratesIO(ctx, "foo", "foo", "1.2.0", AddOptions{}); err != nil {
		t.Fatalf("AddCratesIO: %v", err)
	}
	if err := client.AddGit(ctx, "bar", "https://example.com/bar.git", "abcdef0", "", AddOptions{}); err != nil {
		t.Fatalf("AddGit: %v", err)
	}

	// Both declarations carry the stub hashes.
	statuses, err := client.Sources()
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 2 {
		t.Fatalf("sources = %d, want 2", len(statuses))
	}
	for _, s := range statuses {
		if !s.Complete {
			t.Errorf("source %s should be complete after add", s.Name)
		}
	}

	if err := client.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	discovery, err := client.Members(ctx)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(discovery.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(discovery.Members))
	}
	if len(discovery.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", discovery.Warnings)
	}
	if discovery.Warnings[0].Member != "bar" || !strings.Contains(discovery.Warnings[0].Message, "Cargo.lock") {
		t.Errorf("warning = %+v, want bar's missing lockfile", discovery.Warnings[0])
	}

	manifests, err := client.ManifestPaths(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(manifests) != 2 {
		t.Errorf("manifests = %v", manifests)
	}
}

func TestAddRefusesDuplicate(t *testing.T) {
	ctx := context.Background()
	installStubTools(t)
	client := newTestClient(t, "nix")

	if err := client.AddCratesIO(ctx, "foo", "foo", "1.2.0", AddOptions{}); err != nil {
		t.Fatal(err)
	}

	err := client.AddCratesIO(ctx, "foo", "foo", "2.0.0", AddOptions{})
	if err == nil || !strings.Contains(err.Error(), "already declared") {
		t.Fatalf("expected duplicate refusal, got: %v", err)
	}

	// Force replaces the declaration.
	if err := client.AddCratesIO(ctx, "foo", "foo", "2.0.0", AddOptions{Force: true}); err != nil {
		t.Fatalf("forced add: %v", err)
	}
	statuses, err := client.Sources()
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 1 || !strings.Contains(statuses[0].Identity, "2.0.0") {
		t.Errorf("statuses = %+v", statuses)
	}
}

func TestAddNix(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, "nix")

	if err := client.AddNix(ctx, "extra", "./extra.nix", "", "mySources", AddOptions{}); err != nil {
		t.Fatalf("AddNix: %v", err)
	}

	stale, reason, err := client.Outdated()
	if err != nil {
		t.Fatal(err)
	}
	if !stale || !strings.Contains(reason, "extra") {
		t.Errorf("nix source must force staleness, got (%v, %q)", stale, reason)
	}
}

func TestAddInvalidSource(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, "nix")

	if err := client.AddNix(ctx, "broken", "", "", "", AddOptions{}); err == nil {
		t.Fatal("expected validation error for nix source without file or expr")
	}
	if err := client.AddCratesIO(ctx, "", "foo", "1.0.0", AddOptions{}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestGenerateWithoutConfig(t *testing.T) {
	client := newTestClient(t, "nix")
	if err := client.Generate(); err == nil {
		t.Fatal("expected error when config file does not exist")
	}
}
