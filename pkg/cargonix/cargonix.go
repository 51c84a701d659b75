// Package cargonix provides the public Go library API for cargonix.
//
// cargonix manages out-of-tree Cargo build sources for a nix-backed build
// pipeline. Sources are declared in cargonix.yaml, pinned with a content
// hash at add time, materialized on disk by the external build executor,
// and exposed to the rest of the pipeline as workspace members.
//
// # Basic Usage
//
//	client, err := cargonix.New(cargonix.Options{
//	    ConfigPath: "cargonix.yaml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Declare a source, prefetching its hash.
//	err = client.AddCratesIO(ctx, "ripgrep", "ripgrep", "13.0.0", cargonix.AddOptions{})
//
//	// Materialize and list the workspace members.
//	manifests, err := client.ManifestPaths(ctx)
package cargonix

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/cargonix/cargonix/internal/cache"
	"github.com/cargonix/cargonix/internal/config"
	"github.com/cargonix/cargonix/internal/prefetch"
	"github.com/cargonix/cargonix/internal/sources"
)

// Options configures a Client.
type Options struct {
	// ConfigPath is the path of the cargonix.yaml file. Its parent
	// directory owns all generated artifacts.
	ConfigPath string

	// Executor overrides the build executor binary. Defaults to "nix".
	Executor string

	// CacheDir holds previously prefetched hashes. Empty selects the
	// default directory; DisableCache turns caching off entirely.
	CacheDir     string
	DisableCache bool

	// Logger receives progress and warnings. Defaults to log.Default().
	Logger *log.Logger
}

// AddOptions configures an add operation.
type AddOptions struct {
	// Force replaces an existing declaration of the same name. Without it,
	// adding over an existing declaration fails: recorded hashes are never
	// silently overwritten.
	Force bool
}

// Member is one materialized source directory with its manifest pair.
type Member struct {
	Name         string
	ManifestPath string
	LockfilePath string
}

// Warning is a non-fatal condition found in a materialized member directory,
// such as a missing manifest or lock file.
type Warning struct {
	Member  string
	Message string
}

// Discovery holds discovered members and non-fatal warnings.
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

// SourceStatus summarizes one declared source.
type SourceStatus struct {
	Name     string
	Type     string
	Identity string // package version, repository revision, or expression
	Complete bool   // hash recorded, or pre-resolved
}

// Client is the embeddable cargonix API.
type Client struct {
	configPath string
	fetched    *sources.FetchedSources
	completer  *sources.Completer
}

// New creates a Client for the given options.
func New(opts Options) (*Client, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("ConfigPath is required")
	}

	var hashCache *cache.Cache
	if !opts.DisableCache {
		dir := opts.CacheDir
		if dir == "" {
			dir = cache.DefaultDir()
		}
		c, err := cache.New(dir)
		if err != nil {
			return nil, fmt.Errorf("opening hash cache: %w", err)
		}
		hashCache = c
	}

	fetched := sources.New(opts.ConfigPath)
	fetched.Executor = opts.Executor
	fetched.Logger = opts.Logger

	return &Client{
		configPath: opts.ConfigPath,
		fetched:    fetched,
		completer: &sources.Completer{
			Registry: prefetch.Default(),
			Cache:    hashCache,
			Logger:   opts.Logger,
		},
	}, nil
}

// AddCratesIO declares a crates.io source, prefetching its content hash, and
// saves the configuration.
func (c *Client) AddCratesIO(ctx context.Context, name, pkg, version string, opts AddOptions) error {
	return c.addSource(ctx, name, config.Source{
		Type:    config.KindCratesIO,
		Package: pkg,
		Version: version,
	}, opts)
}

// AddGit declares a git source pinned at rev, prefetching its content hash,
// and saves the configuration. ref may be empty.
func (c *Client) AddGit(ctx context.Context, name, url, rev, ref string, opts AddOptions) error {
	return c.addSource(ctx, name, config.Source{
		Type: config.KindGit,
		URL:  url,
		Rev:  rev,
		Ref:  ref,
	}, opts)
}

// AddNix declares a pre-resolved nix source and saves the configuration.
// Exactly one of file and expr must be set; attr may be empty.
func (c *Client) AddNix(ctx context.Context, name, file, expr, attr string, opts AddOptions) error {
	return c.addSource(ctx, name, config.Source{
		Type: config.KindNix,
		File: file,
		Expr: expr,
		Attr: attr,
	}, opts)
}

func (c *Client) addSource(ctx context.Context, name string, src config.Source, opts AddOptions) error {
	if name == "" {
		return fmt.Errorf("source name is required")
	}

	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return err
	}
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]config.Source)
	}

	// Refuse before prefetching: recorded declarations are never silently
	// replaced.
	if _, exists := cfg.Sources[name]; exists && !opts.Force {
		return fmt.Errorf("source '%s' is already declared in %s; use force to replace it", name, c.configPath)
	}

	completed, err := c.completer.Complete(ctx, src)
	if err != nil {
		return err
	}
	if errs := config.Validate(&config.Config{Version: 1, Sources: map[string]config.Source{name: completed}}); len(errs) > 0 {
		return fmt.Errorf("invalid source '%s': %s", name, errs[0])
	}
	cfg.Sources[name] = completed

	if err := config.Save(c.configPath, cfg); err != nil {
		return fmt.Errorf("saving config %s: %w", c.configPath, err)
	}
	return nil
}

// Generate regenerates the descriptor file from the current configuration.
func (c *Client) Generate() error {
	return c.fetched.Regenerate()
}

// Fetch regenerates the descriptor file and materializes the declared
// sources, returning the output symlink path.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	return c.fetched.Fetch(ctx)
}

// Outdated reports whether the materialized output must be refreshed, with
// a human-readable reason.
func (c *Client) Outdated() (bool, string, error) {
	return c.fetched.Outdated()
}

// Members discovers the materialized workspace members, refreshing the
// output first if it is stale.
func (c *Client) Members(ctx context.Context) (*Discovery, error) {
	discovered, err := c.fetched.Discover(ctx)
	if err != nil {
		return nil, err
	}

	result := &Discovery{}
	for _, m := range discovered.Members {
		result.Members = append(result.Members, Member{
			Name:         m.Name,
			ManifestPath: m.ManifestPath,
			LockfilePath: m.LockfilePath,
		})
	}
	for _, w := range discovered.Warnings {
		result.Warnings = append(result.Warnings, Warning{
			Member:  w.Member,
			Message: w.String(),
		})
	}
	return result, nil
}

// ManifestPaths returns the manifest path of every materialized workspace
// member, refreshing the output first if it is stale.
func (c *Client) ManifestPaths(ctx context.Context) ([]string, error) {
	discovery, err := c.Members(ctx)
	if err != nil {
		return nil, err
	}
	return discovery.ManifestPaths(), nil
}

// Sources returns a status summary of every declared source, in name order.
func (c *Client) Sources() ([]SourceStatus, error) {
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return nil, err
	}

	statuses := make([]SourceStatus, 0, len(cfg.Sources))
	for _, name := range cfg.SourceNames() {
		src := cfg.Sources[name]
		statuses = append(statuses, SourceStatus{
			Name:     name,
			Type:     src.Type,
			Identity: sourceIdentity(src),
			Complete: src.Complete(),
		})
	}
	return statuses, nil
}

func sourceIdentity(src config.Source) string {
	switch src.Type {
	case config.KindCratesIO:
		return fmt.Sprintf("%s %s", src.Package, src.Version)
	case config.KindGit:
		rev := src.Rev
		if len(rev) > 8 {
			rev = rev[:8]
		}
		return fmt.Sprintf("%s at %s", src.URL, rev)
	case config.KindNix:
		if src.File != "" {
			return src.File
		}
		return src.Expr
	default:
		return "(unknown)"
	}
}
