package sources

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cargonix/cargonix/internal/config"
	"github.com/cargonix/cargonix/internal/render"
	"github.com/cargonix/cargonix/internal/sandbox"
)

// Regenerate writes the descriptor file from the current configuration.
// An existing descriptor is replaced only when it carries the provenance
// marker; anything else is presumed hand-authored and left untouched.
func (f *FetchedSources) Regenerate() error {
	if _, err := os.Stat(f.ConfigPath); err != nil {
		if os.IsNotExist(err) {
			return &ConfigNotFoundError{Path: f.ConfigPath}
		}
		return fmt.Errorf("checking config %s: %w", f.ConfigPath, err)
	}

	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return err
	}

	if err := checkGenerated(f.SourcesNixPath()); err != nil {
		return err
	}

	data, err := render.SourcesNix(cfg)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", SourcesNixName, err)
	}

	if err := sandbox.SafeWrite(f.ProjectDir(), SourcesNixName, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", f.SourcesNixPath(), err)
	}
	return nil
}

// checkGenerated scans an existing descriptor line by line for the
// provenance marker. Missing files pass; files without the marker fail.
func checkGenerated(path string) error {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), render.Marker) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return &RefuseOverwriteError{Path: path}
}
