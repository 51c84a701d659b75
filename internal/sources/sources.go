// Package sources manages out-of-tree build sources: it generates the
// descriptor file consumed by the external build executor, materializes the
// declared sources into a per-project output symlink, and discovers the
// resulting workspace members.
package sources

import (
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Fixed names of the generated artifacts, siblings of the config file.
const (
	// SourcesNixName is the generated descriptor file.
	SourcesNixName = "cargonix-sources.nix"
	// FetchedSourcesName is the output symlink produced by the executor.
	FetchedSourcesName = "cargonix-sources"
	// fetchAttr is the descriptor attribute the executor is asked to build.
	fetchAttr = "fetchedSources"
)

// FetchedSources operates on the generated descriptor file and the
// materialized source tree of one project directory. The project directory
// is derived from the config file path and owns both artifacts.
type FetchedSources struct {
	ConfigPath string

	// Executor is the build executor binary. Defaults to "nix".
	Executor string

	// Logger receives progress and warnings. Defaults to log.Default().
	Logger *log.Logger
}

// New returns a FetchedSources for the given config file path.
func New(configPath string) *FetchedSources {
	return &FetchedSources{ConfigPath: configPath}
}

// ProjectDir returns the directory containing the config file.
func (f *FetchedSources) ProjectDir() string {
	return filepath.Dir(f.ConfigPath)
}

// SourcesNixPath returns the path of the generated descriptor file.
func (f *FetchedSources) SourcesNixPath() string {
	return filepath.Join(f.ProjectDir(), SourcesNixName)
}

// SymlinkPath returns the path of the materialized-output symlink.
func (f *FetchedSources) SymlinkPath() string {
	return filepath.Join(f.ProjectDir(), FetchedSourcesName)
}

func (f *FetchedSources) executor() string {
	if f.Executor != "" {
		return f.Executor
	}
	return "nix"
}

func (f *FetchedSources) logger() *log.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return log.Default()
}
