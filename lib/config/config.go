// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted by [Load].
const EnvVar = "TALLY_CONFIG"

// Theme names accepted by display.theme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// CompressionNames lists the archive.compression values. The tape
// package owns the meaning of each name.
var CompressionNames = []string{"none", "lz4", "zstd"}

// Config is the master configuration for tally.
type Config struct {
	Log     LogConfig     `yaml:"log" toml:"log"`
	Display DisplayConfig `yaml:"display" toml:"display"`
	Tape    TapeConfig    `yaml:"tape" toml:"tape"`
	Archive ArchiveConfig `yaml:"archive" toml:"archive"`
}

// LogConfig configures slog output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level" toml:"level"`

	// Output is a file that receives JSON log records in addition to
	// the normal destination. Empty disables the file.
	Output string `yaml:"output" toml:"output"`
}

// DisplayConfig configures the interactive terminal front-end.
type DisplayConfig struct {
	// Theme selects the colour palette: dark or light.
	// Default: dark
	Theme string `yaml:"theme" toml:"theme"`

	// NoColor forces plain ASCII output without ANSI colours.
	NoColor bool `yaml:"no_color" toml:"no_color"`
}

// TapeConfig configures the tape pane.
type TapeConfig struct {
	// Heat makes newly appended tape lines glow and fade.
	// Default: true
	Heat bool `yaml:"heat" toml:"heat"`
}

// ArchiveConfig configures recorded session archives.
type ArchiveConfig struct {
	// Directory is where archives are written when no explicit output
	// path is given. Default: ${HOME}/.local/share/tally
	Directory string `yaml:"directory" toml:"directory"`

	// Compression is the payload compression: none, lz4, or zstd.
	// Default: zstd
	Compression string `yaml:"compression" toml:"compression"`

	// Recipients are age X25519 public keys. When non-empty, archives
	// are encrypted to all of them.
	Recipients []string `yaml:"recipients" toml:"recipients"`
}

// Default returns the default configuration. Loaded files are merged
// on top of these values.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Display: DisplayConfig{
			Theme: ThemeDark,
		},
		Tape: TapeConfig{
			Heat: true,
		},
		Archive: ArchiveConfig{
			Directory:   "${TALLY_DATA:-${HOME}/.local/share/tally}",
			Compression: "zstd",
		},
	}
}

// Load loads configuration from the TALLY_CONFIG environment variable,
// or returns the expanded defaults when it is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, choosing the
// decoder by file extension.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// loadFile decodes a single configuration file, merging into c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	case ".json", ".jsonc":
		// JSON is a subset of YAML, so after stripping comments and
		// trailing commas the YAML decoder and its struct tags apply.
		return yaml.Unmarshal(jsonc.ToJSON(data), c)
	case ".toml":
		metadata, err := toml.Decode(string(data), c)
		if err != nil {
			return err
		}
		if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys: %v", undecoded)
		}
		return nil
	default:
		return fmt.Errorf("unsupported config extension %q (want .yaml, .yml, .json, .jsonc, or .toml)", extension)
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	if vars["HOME"] == "" {
		vars["HOME"], _ = os.UserHomeDir()
	}

	c.Log.Output = expandVars(c.Log.Output, vars)
	c.Archive.Directory = expandVars(c.Archive.Directory, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-((?:[^{}]|\$\{[^}]*\})*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. A default may
// itself contain one level of ${VAR} references.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return expandVars(defaultValue, vars)
	})
}

// SlogLevel parses Level. An empty level means info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if c.Display.Theme != ThemeDark && c.Display.Theme != ThemeLight {
		errs = append(errs, fmt.Errorf("display.theme must be %q or %q, got %q", ThemeDark, ThemeLight, c.Display.Theme))
	}

	if !slices.Contains(CompressionNames, c.Archive.Compression) {
		errs = append(errs, fmt.Errorf("archive.compression must be one of: %v", CompressionNames))
	}

	if c.Archive.Directory == "" {
		errs = append(errs, fmt.Errorf("archive.directory is required"))
	}

	for index, recipient := range c.Archive.Recipients {
		if !strings.HasPrefix(recipient, "age1") {
			errs = append(errs, fmt.Errorf("archive.recipients[%d]: %q is not an age X25519 public key", index, recipient))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsureArchiveDirectory creates the archive directory if it does not
// exist and returns its path.
func (c *Config) EnsureArchiveDirectory() (string, error) {
	if err := os.MkdirAll(c.Archive.Directory, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", c.Archive.Directory, err)
	}
	return c.Archive.Directory, nil
}
