package sources

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestOutdatedMissingOutput(t *testing.T) {
	f := newProject(t, completedConfigYAML)
	stale, _, err := f.Outdated()
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("missing output must be stale")
	}
}

func TestOutdatedFreshOutput(t *testing.T) {
	f := newProject(t, completedConfigYAML)
	if err := os.Mkdir(f.SymlinkPath(), 0755); err != nil {
		t.Fatal(err)
	}

	// Output strictly newer than the config.
	now := time.Now()
	if err := os.Chtimes(f.ConfigPath, now.Add(-2*time.Hour), now.Add(-2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(f.SymlinkPath(), now, now); err != nil {
		t.Fatal(err)
	}

	stale, _, err := f.Outdated()
	if err != nil {
		t.Fatal(err)
	}
	if stale {
		t.Error("output newer than config must not be stale")
	}
}

func TestOutdatedConfigAdvancedPastOutput(t *testing.T) {
	f := newProject(t, completedConfigYAML)
	if err := os.Mkdir(f.SymlinkPath(), 0755); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	if err := os.Chtimes(f.SymlinkPath(), now.Add(-2*time.Hour), now.Add(-2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(f.ConfigPath, now, now); err != nil {
		t.Fatal(err)
	}

	stale, reason, err := f.Outdated()
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("config newer than output must be stale")
	}
	if !strings.Contains(reason, "older than") {
		t.Errorf("reason = %q", reason)
	}
}

func TestOutdatedNixSourceAlwaysStale(t *testing.T) {
	f := newProject(t, `version: 1
sources:
  impure:
    type: nix
    expr: pkgs.hello.src
`)
	if err := os.Mkdir(f.SymlinkPath(), 0755); err != nil {
		t.Fatal(err)
	}

	// Even with the output far in the future, nix sources force a refresh.
	future := time.Now().Add(24 * time.Hour)
	if err := os.Chtimes(f.SymlinkPath(), future, future); err != nil {
		t.Fatal(err)
	}

	stale, reason, err := f.Outdated()
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("nix sources must always be stale")
	}
	if !strings.Contains(reason, "impure") {
		t.Errorf("reason should name the source, got %q", reason)
	}
}

func TestOutdatedMissingConfigBiasesToRefetch(t *testing.T) {
	f := newProject(t, "")
	if err := os.Mkdir(f.SymlinkPath(), 0755); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(f.SymlinkPath(), past, past); err != nil {
		t.Fatal(err)
	}

	// Config mtime falls back to "now", so even an existing output is stale.
	stale, _, err := f.Outdated()
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("unreadable config must bias toward refetching")
	}
}

func TestOutdatedConfigParseError(t *testing.T) {
	f := newProject(t, "version: [broken\n")
	if _, _, err := f.Outdated(); err == nil {
		t.Fatal("expected config parse error to propagate")
	}
}
