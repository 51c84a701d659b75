package prefetch

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/cargonix/cargonix/internal/config"
)

// Prefetcher obtains the content hash for one source declaration variant.
// Implementations shell out to the variant's nix prefetch helper and never
// compute hashes themselves.
type Prefetcher interface {
	// Prefetch resolves the content hash for src.
	Prefetch(ctx context.Context, src config.Source) (string, error)

	// Describe returns the human-readable identity of src, used in progress
	// messages and error context.
	Describe(src config.Source) string
}

// Error wraps a failed prefetch with the source's identity.
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("prefetching %s: %s", e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Registry maps source kinds to Prefetcher implementations.
type Registry struct {
	prefetchers map[string]Prefetcher
}

// NewRegistry creates a new empty prefetcher registry.
func NewRegistry() *Registry {
	return &Registry{prefetchers: make(map[string]Prefetcher)}
}

// Default returns a registry with all built-in prefetchers.
func Default() *Registry {
	reg := NewRegistry()
	reg.Register(config.KindCratesIO, &CratesIOPrefetcher{})
	reg.Register(config.KindGit, &GitPrefetcher{})
	return reg
}

// Register adds a prefetcher for the given source kind.
func (r *Registry) Register(kind string, p Prefetcher) {
	r.prefetchers[kind] = p
}

// Get returns the prefetcher for the given source kind.
func (r *Registry) Get(kind string) (Prefetcher, error) {
	p, ok := r.prefetchers[kind]
	if !ok {
		return nil, fmt.Errorf("no prefetcher for source type '%s'; supported types: %s", kind, r.supportedKinds())
	}
	return p, nil
}

func (r *Registry) supportedKinds() string {
	kinds := make([]string, 0, len(r.prefetchers))
	for k := range r.prefetchers {
		kinds = append(kinds, k)
	}
	if len(kinds) == 0 {
		return "(none registered)"
	}
	sort.Strings(kinds)
	return strings.Join(kinds, ", ")
}

// commandFailed turns an exec failure into an error carrying the tool's
// stderr diagnostics when available.
func commandFailed(tool string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%s failed: %s: %w", tool, strings.TrimSpace(string(exitErr.Stderr)), err)
	}
	return fmt.Errorf("running %s: %w", tool, err)
}

// lastLine returns the last non-empty line of output.
func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
