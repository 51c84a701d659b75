package sources

import (
	"context"
	"os"
	"path/filepath"
)

// Expected files inside each materialized member directory.
const (
	manifestName = "Cargo.toml"
	lockfileName = "Cargo.lock"
)

// Member is one materialized source directory paired with its manifest and
// lock files.
type Member struct {
	Name         string
	ManifestPath string
	LockfilePath string
}

// Discovery holds the result of scanning the materialized source tree.
// Members appear in directory-iteration order.
type Discovery struct {
	Members  []Member
	Warnings []Warning
}

// ManifestPaths returns the manifest path of every member.
func (d *Discovery) ManifestPaths() []string {
	paths := make([]string, 0, len(d.Members))
	for _, m := range d.Members {
		paths = append(paths, m.ManifestPath)
	}
	return paths
}

// Discover returns the workspace members of the materialized source tree,
// refreshing it first when Outdated says so. Missing manifest or lock files
// are recorded as warnings; the member is still included. Failure to read
// the output directory at all is fatal.
func (f *FetchedSources) Discover(ctx context.Context) (*Discovery, error) {
	stale, reason, err := f.Outdated()
	if err != nil {
		return nil, err
	}
	if stale {
		f.logger().Info("Fetching sources.", "reason", reason)
		if _, err := f.Fetch(ctx); err != nil {
			return nil, err
		}
	}

	dir := f.SymlinkPath()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirReadError{Path: dir, Err: err}
	}

	result := &Discovery{}
	for _, entry := range entries {
		memberDir := filepath.Join(dir, entry.Name())
		info, err := os.Stat(memberDir)
		if err != nil {
			return nil, &DirReadError{Path: memberDir, Err: err}
		}
		if !info.IsDir() {
			continue
		}

		member := Member{
			Name:         entry.Name(),
			ManifestPath: filepath.Join(memberDir, manifestName),
			LockfilePath: filepath.Join(memberDir, lockfileName),
		}
		if _, err := os.Stat(member.ManifestPath); err != nil {
			result.Warnings = append(result.Warnings, f.warn(Warning{
				Member: entry.Name(), Kind: WarnMissingManifest, Path: memberDir,
			}))
		}
		if _, err := os.Stat(member.LockfilePath); err != nil {
			result.Warnings = append(result.Warnings, f.warn(Warning{
				Member: entry.Name(), Kind: WarnMissingLockfile, Path: memberDir,
			}))
		}
		result.Members = append(result.Members, member)
	}
	return result, nil
}

func (f *FetchedSources) warn(w Warning) Warning {
	f.logger().Warn(w.String())
	return w
}
