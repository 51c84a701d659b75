package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Cache stores prefetched content hashes keyed by source identity, so that
// re-adding an identical declaration skips the network round trip. Entries
// are only ever written from real prefetch results.
type Cache struct {
	dir string
}

// New creates a Cache at the given directory.
// The directory is created if it does not exist.
func New(dir string) (*Cache, error) {
	objDir := filepath.Join(dir, "hashes")
	if err := os.MkdirAll(objDir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", objDir, err)
	}
	return &Cache{dir: dir}, nil
}

// DefaultDir returns the default cache directory.
// Uses XDG_CACHE_HOME if set, otherwise ~/.cache/cargonix.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cargonix")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return filepath.Join(os.TempDir(), "cargonix-cache")
		}
		return filepath.Join("/tmp", "cargonix-cache")
	}
	return filepath.Join(home, ".cache", "cargonix")
}

// Get retrieves the cached hash for a source identity.
// Returns the hash and true if found, "" and false otherwise.
func (c *Cache) Get(identity string) (string, bool, error) {
	path := c.entryPath(identity)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache entry for %s: %w", identity, err)
	}

	storedIdentity, hash, ok := parseEntry(data)
	if !ok || storedIdentity != identity {
		// Corrupt or colliding entry: drop it and treat as a miss.
		_ = os.Remove(path)
		return "", false, nil
	}
	return hash, true, nil
}

// Put records the prefetched hash for a source identity.
// No-op if already recorded: cached hashes are immutable.
func (c *Cache) Put(identity, hash string) error {
	if hash == "" {
		return fmt.Errorf("cache put: empty hash for %s", identity)
	}

	path := c.entryPath(identity)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache subdirectory: %w", err)
	}

	// Atomic write: temp file + rename.
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating cache temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.WriteString(identity + "\n" + hash + "\n"); err != nil {
		return fmt.Errorf("writing cache temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cache temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming cache temp file: %w", err)
	}

	success = true
	return nil
}

// Path returns the cache directory path.
func (c *Cache) Path() string {
	return c.dir
}

func (c *Cache) entryPath(identity string) string {
	sum := sha256.Sum256([]byte(identity))
	key := hex.EncodeToString(sum[:])
	return filepath.Join(c.dir, "hashes", key[:2], key)
}

// parseEntry splits a cache entry into its identity line and hash line.
func parseEntry(data []byte) (identity, hash string, ok bool) {
	lines := strings.SplitN(strings.TrimRight(string(data), "\n"), "\n", 2)
	if len(lines) != 2 || lines[0] == "" || lines[1] == "" {
		return "", "", false
	}
	return lines[0], lines[1], true
}
