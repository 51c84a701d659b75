package sources

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/cargonix/cargonix/internal/cache"
	"github.com/cargonix/cargonix/internal/config"
	"github.com/cargonix/cargonix/internal/prefetch"
)

// Completer populates missing content hashes on source declarations by
// delegating to the per-variant prefetcher.
type Completer struct {
	Registry *prefetch.Registry

	// Cache is an optional store of previously prefetched hashes.
	Cache *cache.Cache

	Logger *log.Logger
}

// Complete returns src with its hash populated. Declarations that already
// carry a hash, and pre-resolved nix declarations, are returned unchanged:
// completion is monotonic, a set hash is never recomputed.
func (c *Completer) Complete(ctx context.Context, src config.Source) (config.Source, error) {
	if src.Complete() {
		return src, nil
	}

	pf, err := c.Registry.Get(src.Type)
	if err != nil {
		return config.Source{}, err
	}
	identity := pf.Describe(src)

	if c.Cache != nil {
		if hash, ok, err := c.Cache.Get(identity); err == nil && ok {
			c.logger().Debug("Using previously prefetched hash.", "source", identity, "hash", hash)
			src.Hash = hash
			return src, nil
		}
	}

	c.logger().Info("Prefetching " + identity)
	hash, err := pf.Prefetch(ctx, src)
	if err != nil {
		return config.Source{}, &prefetch.Error{Source: identity, Err: err}
	}
	c.logger().Info("Prefetching " + identity + ": done.")

	if c.Cache != nil {
		_ = c.Cache.Put(identity, hash)
	}
	src.Hash = hash
	return src, nil
}

// CratesIOSource returns a completed crates-io declaration for the given
// package version by prefetching its hash.
func (c *Completer) CratesIOSource(ctx context.Context, pkg, version string) (config.Source, error) {
	return c.Complete(ctx, config.Source{
		Type:    config.KindCratesIO,
		Package: pkg,
		Version: version,
	})
}

// GitSource returns a completed git declaration for the given repository and
// revision by prefetching its hash. ref may be empty.
func (c *Completer) GitSource(ctx context.Context, url, rev, ref string) (config.Source, error) {
	return c.Complete(ctx, config.Source{
		Type: config.KindGit,
		URL:  url,
		Rev:  rev,
		Ref:  ref,
	})
}

func (c *Completer) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}
