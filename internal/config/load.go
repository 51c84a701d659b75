package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a cargonix.yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &cfg, nil
}

// LoadOrDefault reads the config file, returning an empty default config if
// the file does not exist. Parse and validation failures are still surfaced.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{Version: 1}, nil
	}
	return cfg, err
}

// Save writes the config atomically using a temp file and rename.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp config %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp config to %s: %w", path, err)
	}

	return nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d; only version 1 is supported", cfg.Version))
	}

	for _, name := range cfg.SourceNames() {
		prefix := fmt.Sprintf("source '%s'", name)
		if name == "" {
			errs = append(errs, "source with empty name is not allowed")
			continue
		}
		errs = append(errs, validateSource(cfg.Sources[name], prefix)...)
	}

	return errs
}

func validateSource(src Source, prefix string) []string {
	var errs []string

	switch src.Type {
	case KindCratesIO:
		if src.Package == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'crates-io' requires 'package'", prefix))
		}
		if src.Version == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'crates-io' requires 'version'", prefix))
		}
	case KindGit:
		if src.URL == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'git' requires 'url'", prefix))
		}
		if src.Rev == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'git' requires 'rev'; pin an exact revision", prefix))
		}
	case KindNix:
		if src.File == "" && src.Expr == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'nix' requires one of 'file' or 'expr'", prefix))
		}
		if src.File != "" && src.Expr != "" {
			errs = append(errs, fmt.Sprintf("%s: 'file' and 'expr' are mutually exclusive; use one or the other", prefix))
		}
	case "":
		errs = append(errs, fmt.Sprintf("%s: 'type' is required; must be one of: crates-io, git, nix", prefix))
	default:
		errs = append(errs, fmt.Sprintf("%s: unknown source type '%s'; must be one of: crates-io, git, nix", prefix, src.Type))
	}

	return errs
}
