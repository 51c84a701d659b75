package prefetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/cargonix/cargonix/internal/config"
)

// GitPrefetcher obtains repository hashes via nix-prefetch-git.
type GitPrefetcher struct {
	// Tool overrides the prefetch helper binary, for tests.
	Tool string
}

func (p *GitPrefetcher) Describe(src config.Source) string {
	rev := src.Rev
	if len(rev) > 8 {
		rev = rev[:8]
	}
	return fmt.Sprintf("git repository %s at %s", src.URL, rev)
}

func (p *GitPrefetcher) Prefetch(ctx context.Context, src config.Source) (string, error) {
	if src.URL == "" || src.Rev == "" {
		return "", fmt.Errorf("git source requires url and rev")
	}

	tool := p.Tool
	if tool == "" {
		tool = "nix-prefetch-git"
	}

	args := []string{"--url", src.URL, "--rev", src.Rev}
	if src.Ref != "" {
		args = append(args, "--branch-name", src.Ref)
	}

	cmd := exec.CommandContext(ctx, tool, args...)
	output, err := cmd.Output()
	if err != nil {
		return "", commandFailed(tool, err)
	}

	// nix-prefetch-git prints a JSON document on stdout; progress goes to
	// stderr.
	var result struct {
		SHA256 string `json:"sha256"`
	}
	if err := json.Unmarshal(output, &result); err != nil {
		return "", fmt.Errorf("parsing %s output: %w", tool, err)
	}
	if result.SHA256 == "" {
		return "", fmt.Errorf("%s produced no hash", tool)
	}
	return result.SHA256, nil
}
