package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "depscope"

// Config holds persistent defaults read from the TOML config file.
// Command-line flags override config values, which override built-ins.
type Config struct {
	Registry string       `toml:"registry"`  // npm registry endpoint
	MaxDepth int          `toml:"max_depth"` // default expansion depth
	Exclude  string       `toml:"exclude"`   // default exclusion substring
	Cache    CacheConfig  `toml:"cache"`
	Server   ServerConfig `toml:"server"`
}

// CacheConfig controls the registry response cache.
type CacheConfig struct {
	Dir      string `toml:"dir"`       // cache directory ("" = XDG default)
	TTLHours int    `toml:"ttl_hours"` // entry lifetime
	Disabled bool   `toml:"disabled"`
}

// ServerConfig configures `depscope serve`.
type ServerConfig struct {
	Listen string `toml:"listen"` // bind address
	Redis  string `toml:"redis"`  // optional Redis addr for the shared cache
	Mongo  string `toml:"mongo"`  // optional MongoDB URI for graph storage
}

func defaultConfig() Config {
	return Config{
		Registry: "https://registry.npmjs.org",
		MaxDepth: 10,
		Cache:    CacheConfig{TTLHours: 24},
		Server:   ServerConfig{Listen: ":8080"},
	}
}

// loadConfig reads the config file if present, layering it over the
// defaults. A missing file is not an error; a malformed one is.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	path, err := configPath()
	if err != nil {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// configPath returns ~/.config/depscope/config.toml, honoring XDG_CONFIG_HOME.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// cacheDir returns the cache directory, honoring XDG_CACHE_HOME.
func cacheDir(cfg Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func (c CacheConfig) ttl() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}
