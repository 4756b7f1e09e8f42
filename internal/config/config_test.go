package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Cache.Backend != BackendFile || cfg.HTTP.Addr == "" || cfg.Diagrams.Dir != "." {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.LogLevel() != log.InfoLevel {
		t.Errorf("LogLevel = %v", cfg.LogLevel())
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[diagrams]
dir = "/srv/diagrams"
compress = true

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/2"
ttl = "90m"
namespace = "team-a"

[http]
addr = ":9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel = %v", cfg.LogLevel())
	}
	if cfg.Diagrams.Dir != "/srv/diagrams" || !cfg.Diagrams.Compress {
		t.Errorf("Diagrams = %+v", cfg.Diagrams)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.TTL.Duration != 90*time.Minute || cfg.Cache.Namespace != "team-a" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.HTTP.Addr != ":9000" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg, err := Load(writeConfig(t, "[diagrams]\ndir = \"~/d\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "d"); cfg.Diagrams.Dir != want {
		t.Errorf("Diagrams.Dir = %q, want %q", cfg.Diagrams.Dir, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[log\n", "read config"},
		{"unknown key", "[log]\nlevle = \"debug\"\n", "unknown keys: log.levle"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "unknown backend"},
		{"redis without url", "[cache]\nbackend = \"redis\"\n", "redis_url"},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", "read config"},
		{"bad namespace", "[cache]\nnamespace = \"a:b\"\n", "cache.namespace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, want := Path(), filepath.Join("/tmp/xdg", AppName, "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
