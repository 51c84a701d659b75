package config

import "sort"

// Source kinds.
const (
	// KindCratesIO is a package downloaded from the crates.io registry.
	KindCratesIO = "crates-io"
	// KindGit is a checkout of a git repository at a pinned revision.
	KindGit = "git"
	// KindNix is a pre-resolved nix expression or file. Opaque to cargonix:
	// it is never prefetched and carries no hash here.
	KindNix = "nix"
)

// Config represents the cargonix.yaml configuration file.
type Config struct {
	Version int               `yaml:"version"`
	Sources map[string]Source `yaml:"sources,omitempty"`
}

// Source defines one out-of-tree build source. The variant is selected by
// Type; only the fields of that variant are populated.
type Source struct {
	Type string `yaml:"type"` // "crates-io", "git", "nix"

	// crates-io fields.
	Package string `yaml:"package,omitempty"`
	Version string `yaml:"version,omitempty"`

	// git fields.
	URL string `yaml:"url,omitempty"`
	Rev string `yaml:"rev,omitempty"`
	Ref string `yaml:"ref,omitempty"`

	// Content hash recorded by hash completion (crates-io and git only).
	// Once set it is never recomputed or overwritten.
	Hash string `yaml:"hash,omitempty"`

	// nix fields. Exactly one of File or Expr is set.
	File string `yaml:"file,omitempty"`
	Expr string `yaml:"expr,omitempty"`
	Attr string `yaml:"attr,omitempty"`
}

// Complete reports whether the declaration needs no further hash completion.
// Nix declarations are pre-resolved and always complete.
func (s Source) Complete() bool {
	if s.Type == KindNix {
		return true
	}
	return s.Hash != ""
}

// Reproducible reports whether the declaration's identity alone pins its
// content. Nix declarations depend on their environment and must always be
// refreshed before use.
func (s Source) Reproducible() bool {
	return s.Type != KindNix
}

// SourceNames returns the declared source names in sorted order.
func (c *Config) SourceNames() []string {
	names := make([]string, 0, len(c.Sources))
	for name := range c.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
