package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePath checks that relPath stays inside projectRoot after symlink
// resolution and returns the resolved absolute path. Generated artifacts are
// only ever written through this check.
func ValidatePath(projectRoot, relPath string) (string, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolving project root symlinks: %w", err)
	}

	candidate := filepath.Clean(filepath.Join(realRoot, relPath))
	resolved, err := resolveExistingPrefix(candidate)
	if err != nil {
		return "", fmt.Errorf("resolving target path: %w", err)
	}

	// Trailing separator avoids matching a sibling like "project2".
	if resolved != realRoot && !strings.HasPrefix(resolved, realRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path '%s' resolves to '%s' outside the project directory '%s'", relPath, resolved, realRoot)
	}
	return resolved, nil
}

// resolveExistingPrefix resolves symlinks for the longest existing prefix of
// path, then re-appends the non-existing suffix.
func resolveExistingPrefix(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}

	dir := filepath.Dir(path)
	if dir == path {
		return path, nil
	}
	resolvedDir, err := resolveExistingPrefix(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, filepath.Base(path)), nil
}

// SafeWrite atomically writes content to a path confined to the project
// directory, using a temp file and rename.
func SafeWrite(projectRoot, relPath string, content []byte, perm os.FileMode) error {
	resolved, err := ValidatePath(projectRoot, relPath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".cargonix-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, resolved); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, resolved, err)
	}

	success = true
	return nil
}
