package sources

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/cargonix/cargonix/internal/command"
)

// Fetch regenerates the descriptor file and drives the build executor to
// materialize the declared sources. On success the output symlink points at
// a directory with one subdirectory per source. This is the only place that
// shells out to the executor.
func (f *FetchedSources) Fetch(ctx context.Context) (string, error) {
	if err := f.Regenerate(); err != nil {
		return "", fmt.Errorf("while regenerating %s: %w", SourcesNixName, err)
	}

	sourcesNix := f.SourcesNixPath()
	symlink := f.SymlinkPath()

	cmd := exec.CommandContext(ctx, f.executor(),
		"--show-trace", "build", "-f", sourcesNix, fetchAttr, "-o", symlink)
	cmd.Dir = f.ProjectDir()

	caption := fmt.Sprintf("Fetching sources via %s %s", sourcesNix, fetchAttr)
	if err := command.Run(f.logger(), caption, cmd); err != nil {
		return "", &MaterializeError{Descriptor: sourcesNix, Err: err}
	}
	return symlink, nil
}
