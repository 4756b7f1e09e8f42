// Package config loads drawctl's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/drawctl/config.toml (or
// ~/.config/drawctl/config.toml). Every key is optional:
//
//	[log]
//	level = "info"            # debug | info | warn | error
//
//	[diagrams]
//	dir = "~/diagrams"        # base for relative diagram paths
//	compress = false          # store pages deflated like draw.io does
//
//	[cache]
//	backend = "file"          # file | redis | none
//	dir = "~/.cache/drawctl"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "168h"
//	namespace = "team-a"      # keeps layout keys apart on a shared store
//
//	[http]
//	addr = "127.0.0.1:8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawctl/pkg/cache"
)

// AppName names the config and cache directories.
const AppName = "drawctl"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the parsed configuration file.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Diagrams DiagramsConfig `toml:"diagrams"`
	Cache    CacheConfig    `toml:"cache"`
	HTTP     HTTPConfig     `toml:"http"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type DiagramsConfig struct {
	Dir      string `toml:"dir"`
	Compress bool   `toml:"compress"`
}

type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`

	// Namespace prefixes layout keys. Empty means unscoped.
	Namespace string `toml:"namespace"`
}

type HTTPConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Log:      LogConfig{Level: "info"},
		Diagrams: DiagramsConfig{Dir: "."},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     defaultCacheDir(),
			TTL:     Duration{cache.TTLLayout},
		},
		HTTP: HTTPConfig{Addr: "127.0.0.1:8080"},
	}
}

// Path returns the default config file location.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName, "config.toml")
}

// Load reads path over the defaults. An empty path means [Path]; a missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Diagrams.Dir = expandHome(cfg.Diagrams.Dir)
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	return cfg, cfg.Validate()
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (valid: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if strings.ContainsAny(c.Cache.Namespace, ": \t/") {
		return fmt.Errorf("cache.namespace %q must not contain ':', '/' or whitespace", c.Cache.Namespace)
	}
	return nil
}

// LogLevel returns the configured level, defaulting to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func defaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".cache", AppName)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
