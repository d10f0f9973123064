// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v9"

	"github.com/sykolabs/syko-core/util"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Storage backend names accepted by Validate.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the complete syko-core configuration.
type Config struct {
	// APIKey authenticates against the inference gateway. Injected via
	// SYKO_API_KEY in preference to the file.
	APIKey string `toml:"api_key" env:"SYKO_API_KEY"`

	// BaseURL overrides the gateway endpoint.
	BaseURL string `toml:"base_url" env:"SYKO_BASE_URL"`

	// DefaultModel is the product model id preselected for new conversations.
	DefaultModel string `toml:"default_model" env:"SYKO_MODEL"`

	// SystemInstruction overrides the built-in persona prompt.
	SystemInstruction string `toml:"system_instruction"`

	// StoreBackend selects the persistence backend: "file" or "sqlite".
	StoreBackend string `toml:"store_backend" env:"SYKO_STORE_BACKEND"`

	// StorePath is the store location (JSON document or SQLite database).
	StorePath string `toml:"store_path" env:"SYKO_STORE_PATH"`

	// MaxSessions caps the registry; 0 means unlimited.
	MaxSessions int `toml:"max_sessions"`

	// TimeoutSecs bounds one generation request.
	TimeoutSecs int `toml:"timeout_secs"`

	// ModelOverrides remaps product model ids to backing model names.
	ModelOverrides map[string]string `toml:"model_overrides"`
}

// =============================================================================
// LOADING
// =============================================================================

// DefaultDir returns the syko config/data directory (~/.syko).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".syko"
	}
	return filepath.Join(home, ".syko")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

// Load reads the default config file if present, applies defaults, then
// environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFromPath(DefaultPath())
}

// LoadFromPath loads config from an explicit file path. A missing file
// yields defaults plus environment overrides.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg.SetDefaults()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults fills zero-value fields with built-in defaults.
func (c *Config) SetDefaults() {
	if c.DefaultModel == "" {
		c.DefaultModel = "syko-v1-alpha"
	}
	if c.StoreBackend == "" {
		c.StoreBackend = BackendFile
	}
	if c.StorePath == "" {
		switch c.StoreBackend {
		case BackendSQLite:
			c.StorePath = filepath.Join(DefaultDir(), "syko.db")
		default:
			c.StorePath = filepath.Join(DefaultDir(), "syko.json")
		}
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = 120
	}
	if c.MaxSessions < 0 {
		c.MaxSessions = 0
	}
}

// Validate checks field values. It does not require an API key; a keyless
// config is usable for everything except generation.
func (c *Config) Validate() error {
	if c.StoreBackend != BackendFile && c.StoreBackend != BackendSQLite {
		return fmt.Errorf("config: unknown store backend %q", c.StoreBackend)
	}
	if c.StorePath == "" {
		return fmt.Errorf("config: store path must not be empty")
	}
	if c.TimeoutSecs <= 0 {
		return fmt.Errorf("config: timeout_secs must be positive")
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the config as TOML to the default path, creating the
// directory if needed. The write is atomic.
func Save(cfg *Config) error {
	return SaveTOML(cfg, DefaultPath())
}

// SaveTOML writes the config as TOML to an explicit path.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
