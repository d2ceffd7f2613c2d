// Package config loads server configuration from a TOML file, with
// sensible defaults when no file exists.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultAddr      = "127.0.0.1:8080"
	defaultDBPath    = "stagehand.db"
	defaultAdminUser = "admin"
)

// Config contains the server configuration.
type Config struct {
	Addr      string `toml:"addr"`
	DBPath    string `toml:"db_path"`
	LogPath   string `toml:"log_path"`
	AdminUser string `toml:"admin_user"`
}

// Default returns a config populated with default values.
func Default() Config {
	return Config{
		Addr:      defaultAddr,
		DBPath:    defaultDBPath,
		AdminUser: defaultAdminUser,
	}
}

// Load reads a TOML config file, layering it over the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the config for unusable values.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.AdminUser == "" {
		return fmt.Errorf("admin_user must not be empty")
	}
	return nil
}
