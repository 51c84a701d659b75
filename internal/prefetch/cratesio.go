package prefetch

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/cargonix/cargonix/internal/config"
)

// CratesIOPrefetcher obtains crate hashes via nix-prefetch-url.
type CratesIOPrefetcher struct {
	// Tool overrides the prefetch helper binary, for tests.
	Tool string
}

// DownloadURL returns the crates.io download endpoint for a crate version.
func DownloadURL(pkg, version string) string {
	return fmt.Sprintf("https://crates.io/api/v1/crates/%s/%s/download", pkg, version)
}

func (p *CratesIOPrefetcher) Describe(src config.Source) string {
	return fmt.Sprintf("crates.io crate %s %s", src.Package, src.Version)
}

func (p *CratesIOPrefetcher) Prefetch(ctx context.Context, src config.Source) (string, error) {
	if src.Package == "" || src.Version == "" {
		return "", fmt.Errorf("crates-io source requires package and version")
	}

	tool := p.Tool
	if tool == "" {
		tool = "nix-prefetch-url"
	}

	// The --name argument gives the store path a stable, readable name;
	// crates.io serves the tarball from a name-less download endpoint.
	name := fmt.Sprintf("%s-%s.tar.gz", src.Package, src.Version)
	cmd := exec.CommandContext(ctx, tool, "--name", name, DownloadURL(src.Package, src.Version))
	output, err := cmd.Output()
	if err != nil {
		return "", commandFailed(tool, err)
	}

	hash := lastLine(output)
	if hash == "" {
		return "", fmt.Errorf("%s produced no hash", tool)
	}
	return hash, nil
}
