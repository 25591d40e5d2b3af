// Package config loads optional defaults for diffadd from a TOML file and
// the environment. Command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the settings that may be stored between runs.
type Config struct {
	Backend     string `toml:"backend"`
	GitBin      string `toml:"git_bin"`
	NoAnimation bool   `toml:"no_animation"`
	CopyPath    bool   `toml:"copy_path"`
	Verbose     bool   `toml:"verbose"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{Backend: "go-git"}
}

// DefaultPath returns $XDG_CONFIG_HOME/diffadd/config.toml, falling back to
// ~/.config/diffadd/config.toml.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "diffadd", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "diffadd", "config.toml"), nil
}

// Load reads path, or DefaultPath when path is empty. A missing default file
// is not an error; a missing explicit file is. Environment overrides are
// applied last and the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies DIFFADD_BACKEND, DIFFADD_GIT_BIN and
// DIFFADD_NO_ANIMATION.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("DIFFADD_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("DIFFADD_GIT_BIN"); v != "" {
		c.GitBin = v
	}
	if v := os.Getenv("DIFFADD_NO_ANIMATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DIFFADD_NO_ANIMATION: %w", err)
		}
		c.NoAnimation = b
	}
	return nil
}

// Validate rejects unknown backends.
func (c *Config) Validate() error {
	c.Backend = strings.TrimSpace(c.Backend)
	switch c.Backend {
	case "":
		c.Backend = "go-git"
	case "go-git", "exec":
	default:
		return fmt.Errorf("backend must be \"go-git\" or \"exec\", got %q", c.Backend)
	}
	return nil
}
