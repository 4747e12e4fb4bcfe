// Package config loads the repo-intel configuration file.
//
// Configuration lives in a TOML file, by default at
// ~/.config/repo-intel/config.toml. Every field has a working zero
// value so the tool runs without any file present; CLI flags override
// file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full application configuration.
type Config struct {
	Server Server `toml:"server"`
	Cache  Cache  `toml:"cache"`
	Mongo  Mongo  `toml:"mongo"`
	GitHub GitHub `toml:"github"`
	Scan   Scan   `toml:"scan"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Cache selects the acquirer response cache backend.
type Cache struct {
	// Backend is "file", "redis", or "none".
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// Mongo configures the optional scan-result archive.
type Mongo struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// GitHub configures the GitHub acquirer.
type GitHub struct {
	Token string `toml:"token"`
}

// Scan tunes the scan pipeline.
type Scan struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Cache:  Cache{Backend: "file", Dir: defaultCacheDir()},
		Mongo:  Mongo{Database: "repo_intel"},
	}
}

// Load reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	// Environment wins over the file for the token so it stays out of
	// config files on shared machines. Applied whether or not a config
	// file exists.
	if tok := os.Getenv("GITHUB_TOKEN"); tok != "" {
		cfg.GitHub.Token = tok
	}
	return cfg, nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(configHome(), "repo-intel", "config.toml")
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "repo-intel")
	}
	return filepath.Join(os.TempDir(), "repo-intel-cache")
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}
