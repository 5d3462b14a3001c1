// Package config reads the yaml configuration file. Everything in
// it has a sensible default, so running with no file at all is
// fine.
//
// File locations, first hit wins:
//  1. $STRUCTURE_CONFIG
//  2. ~/.config/structure/config.yaml
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	CacheDir   string `yaml:"cache_dir"`   // "" turns caching off
	Site       int    `yaml:"site"`        // download mirror index
	TimeoutSec int    `yaml:"timeout_sec"` // per http request
	LogTo      string `yaml:"log_to"`      // "", "stdout" or a filename
}

// Default is what you get with no config file. The cache lands
// under the user's cache directory, or nowhere if there is none.
func Default() Config {
	cfg := Config{TimeoutSec: 60}
	if dir, err := os.UserCacheDir(); err == nil {
		cfg.CacheDir = filepath.Join(dir, "structure")
	}
	return cfg
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.TimeoutSec == 0 {
		c.TimeoutSec = def.TimeoutSec
	}
}

// Timeout is TimeoutSec as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

func findPath() string {
	if p := os.Getenv("STRUCTURE_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".config", "structure", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// Load finds and reads the config file. No file is not an error,
// you get the defaults and an empty path. A file that is there but
// will not parse is an error. Silently ignoring a broken config
// would be worse than stopping.
func Load() (Config, string, error) {
	path := findPath()
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

// LoadFromPath reads one named config file.
func LoadFromPath(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.New("config file " + path + ": " + err.Error())
	}
	if cfg.TimeoutSec < 0 {
		return cfg, errors.New("config file " + path + ": negative timeout")
	}
	cfg.applyDefaults()
	return cfg, nil
}
