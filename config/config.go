// Package config parses the workbench's TOML configuration file: an enum
// selecting the cache backend, defaults filled in after parse, and
// validation before any session is built.
package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// CacheBackend names a langforgecache.Store implementation.
type CacheBackend string

const (
	CacheNone   CacheBackend = "none"
	CacheMem    CacheBackend = "inmem"
	CacheSQLite CacheBackend = "sqlite"
)

func (b CacheBackend) String() string { return string(b) }

// ParseCacheBackend parses a backend name case-insensitively.
func ParseCacheBackend(s string) (CacheBackend, error) {
	switch strings.ToLower(s) {
	case string(CacheNone), "":
		return CacheNone, nil
	case string(CacheMem):
		return CacheMem, nil
	case string(CacheSQLite):
		return CacheSQLite, nil
	default:
		return CacheNone, fmt.Errorf("cache backend not one of 'none', 'inmem', or 'sqlite': %q", s)
	}
}

// Cache holds the compiled-table cache configuration.
type Cache struct {
	Backend string `toml:"backend"`
	DataDir string `toml:"data_dir"`
}

// Server holds the HTTP front end configuration.
type Server struct {
	ListenAddr string `toml:"listen_addr"`
}

// Config is the top-level workbench configuration.
type Config struct {
	Cache Cache  `toml:"cache"`
	Server Server `toml:"server"`

	// LogLevel names a gologger level: "debug", "info", "warning",
	// "error", or "fatal".
	LogLevel string `toml:"log_level"`
}

// Parse reads a TOML document into a Config.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// FillDefaults returns a copy of cfg with unset fields defaulted.
func (cfg Config) FillDefaults() Config {
	out := cfg
	if out.Cache.Backend == "" {
		out.Cache.Backend = string(CacheMem)
	}
	if out.LogLevel == "" {
		out.LogLevel = "info"
	}
	if out.Server.ListenAddr == "" {
		out.Server.ListenAddr = ":8080"
	}
	return out
}

// Validate rejects an unknown cache backend or a sqlite backend with no
// data directory, before any session is built.
func (cfg Config) Validate() error {
	backend, err := ParseCacheBackend(cfg.Cache.Backend)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if backend == CacheSQLite && cfg.Cache.DataDir == "" {
		return fmt.Errorf("cache: backend %q requires data_dir", CacheSQLite)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warning", "error", "fatal":
	default:
		return fmt.Errorf("log_level: not one of debug, info, warning, error, fatal: %q", cfg.LogLevel)
	}
	return nil
}
