package sources

import (
	"fmt"
	"os"
	"time"

	"github.com/cargonix/cargonix/internal/config"
)

// Outdated reports whether the materialized output must be refreshed before
// use, along with a human-readable reason.
//
// Any nix declaration forces a refresh unconditionally: its content cannot
// be verified without re-resolving it. Otherwise the output symlink's mtime
// is compared against the config file's mtime, with both fallbacks biased
// toward refetching: an unreadable symlink counts as epoch, an unreadable
// config as now.
func (f *FetchedSources) Outdated() (bool, string, error) {
	cfg, err := config.LoadOrDefault(f.ConfigPath)
	if err != nil {
		return false, "", err
	}

	for _, name := range cfg.SourceNames() {
		if !cfg.Sources[name].Reproducible() {
			return true, fmt.Sprintf("source '%s' is a nix expression and must always be refreshed", name), nil
		}
	}

	symlinkTime := lastModified(f.SymlinkPath(), time.Unix(0, 0))
	configTime := lastModified(f.ConfigPath, time.Now())
	if symlinkTime.Before(configTime) {
		return true, fmt.Sprintf("%s is older than %s", FetchedSourcesName, f.ConfigPath), nil
	}
	return false, "", nil
}

// lastModified returns the mtime of path without following a final symlink,
// or fallback if it cannot be determined.
func lastModified(path string, fallback time.Time) time.Time {
	info, err := os.Lstat(path)
	if err != nil {
		return fallback
	}
	return info.ModTime()
}
