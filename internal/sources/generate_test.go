package sources

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/cargonix/cargonix/internal/render"
)

func TestRegenerateMissingConfig(t *testing.T) {
	f := newProject(t, "")
	err := f.Regenerate()

	var notFound *ConfigNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ConfigNotFoundError, got: %v", err)
	}
	if !strings.Contains(err.Error(), f.ConfigPath) {
		t.Errorf("error should name the config path: %v", err)
	}
}

func TestRegenerateCreatesDescriptor(t *testing.T) {
	f := newProject(t, completedConfigYAML)
	if err := f.Regenerate(); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	data, err := os.ReadFile(f.SourcesNixPath())
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, render.Marker) {
		t.Error("descriptor must contain the provenance marker")
	}
	if !strings.Contains(text, "sha256-fakeFOO") || !strings.Contains(text, "sha256-fakeBAR") {
		t.Error("descriptor must contain both completed declarations")
	}
}

func TestRegenerateRefusesUnmarkedFile(t *testing.T) {
	f := newProject(t, completedConfigYAML)
	handAuthored := "{ pkgs }: { my = \"own sources\"; }\n"
	if err := os.WriteFile(f.SourcesNixPath(), []byte(handAuthored), 0644); err != nil {
		t.Fatal(err)
	}

	err := f.Regenerate()
	var refuse *RefuseOverwriteError
	if !errors.As(err, &refuse) {
		t.Fatalf("expected RefuseOverwriteError, got: %v", err)
	}

	// The hand-authored file must be untouched.
	data, _ := os.ReadFile(f.SourcesNixPath())
	if string(data) != handAuthored {
		t.Error("hand-authored descriptor was modified")
	}
}

func TestRegenerateReplacesMarkedFile(t *testing.T) {
	f := newProject(t, completedConfigYAML)
	stale := "# " + render.Marker + "\n# stale content from a previous run\n"
	if err := os.WriteFile(f.SourcesNixPath(), []byte(stale), 0644); err != nil {
		t.Fatal(err)
	}

	if err := f.Regenerate(); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	data, _ := os.ReadFile(f.SourcesNixPath())
	text := string(data)
	if strings.Contains(text, "stale content") {
		t.Error("marked descriptor should be fully regenerated, not kept")
	}
	if !strings.Contains(text, render.Marker) {
		t.Error("regenerated descriptor must contain the marker again")
	}
}

func TestRegenerateIdempotent(t *testing.T) {
	f := newProject(t, completedConfigYAML)
	if err := f.Regenerate(); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(f.SourcesNixPath())

	if err := f.Regenerate(); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(f.SourcesNixPath())

	if string(first) != string(second) {
		t.Error("regenerating an unchanged config must produce identical output")
	}
}

func TestRegenerateInvalidConfig(t *testing.T) {
	f := newProject(t, "version: 1\nsources:\n  broken:\n    type: crates-io\n")
	if err := f.Regenerate(); err == nil {
		t.Fatal("expected validation error for incomplete source")
	}
}
