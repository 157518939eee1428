package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inovacc/forkr/internal/application"
	"gopkg.in/ini.v1"
)

// GitHubSection configures API access
type GitHubSection struct {
	Token  string `ini:"token"`
	APIURL string `ini:"api_url"`
}

// CacheSection configures the HTTP response cache
type CacheSection struct {
	Dir      string `ini:"dir"`
	TTLHours int    `ini:"ttl_hours"`
	Disabled bool   `ini:"disabled"`
}

// OutputSection configures default rendering
type OutputSection struct {
	Rows int `ini:"rows"`
}

// Config is the file-backed configuration, loaded from config.ini
type Config struct {
	GitHub GitHubSection `ini:"github"`
	Cache  CacheSection  `ini:"cache"`
	Output OutputSection `ini:"output"`
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		Cache: CacheSection{
			TTLHours: 24,
		},
		Output: OutputSection{
			Rows: 10,
		},
	}
}

// DefaultPath returns the expected config file location
func DefaultPath() (string, error) {
	dir, err := application.GetConfigDirectory()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.ini"), nil
}

// Load reads the config file from the default location.
// A missing file is not an error; defaults are returned.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return LoadFrom(path)
}

// LoadFrom reads the config file at the given path
func LoadFrom(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	cfg := Default()

	if err := file.Section("github").MapTo(&cfg.GitHub); err != nil {
		return nil, fmt.Errorf("invalid [github] section: %w", err)
	}

	if err := file.Section("cache").MapTo(&cfg.Cache); err != nil {
		return nil, fmt.Errorf("invalid [cache] section: %w", err)
	}

	if err := file.Section("output").MapTo(&cfg.Output); err != nil {
		return nil, fmt.Errorf("invalid [output] section: %w", err)
	}

	if cfg.Cache.TTLHours <= 0 {
		cfg.Cache.TTLHours = 24
	}

	if cfg.Output.Rows <= 0 {
		cfg.Output.Rows = 10
	}

	return cfg, nil
}
