// Package cli implements the drawctl command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawctl/internal/config"
	"github.com/matzehuels/drawctl/pkg/cache"
	"github.com/matzehuels/drawctl/pkg/layout"
	"github.com/matzehuels/drawctl/pkg/service"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Config is loaded by the root command before any subcommand runs.
	Config config.Config

	out        io.Writer
	configPath string
}

// New creates a new CLI instance with a default logger. Command output goes
// to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// =============================================================================
// Service Factory
// =============================================================================

// newService builds a service from the loaded config. The returned close
// function releases the cache.
func (c *CLI) newService(ctx context.Context) (*service.Service, func(), error) {
	ch, err := c.newCache(ctx, true)
	if err != nil {
		return nil, nil, err
	}
	runner := layout.NewRunner(ch, c.newKeyer(), c.Logger)
	runner.TTL = c.Config.Cache.TTL.Duration
	svc := service.New(service.Options{
		BaseDir:  c.Config.Diagrams.Dir,
		Compress: c.Config.Diagrams.Compress,
		Runner:   runner,
		Logger:   c.Logger,
	})
	closeFn := func() {
		if err := ch.Close(); err != nil {
			c.Logger.Warn("close cache", "error", err)
		}
	}
	return svc, closeFn, nil
}

// newKeyer scopes layout keys to the configured namespace. Nil selects the
// runner's default keyer.
func (c *CLI) newKeyer() cache.Keyer {
	if ns := c.Config.Cache.Namespace; ns != "" {
		return cache.NewScopedKeyer(nil, ns+":")
	}
	return nil
}

// newCache opens the configured layout cache. With fallback set, an
// unreachable Redis degrades to no caching so edits still work.
func (c *CLI) newCache(ctx context.Context, fallback bool) (cache.Cache, error) {
	cc := c.Config.Cache
	switch cc.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cc.RedisURL, config.AppName+":")
		if err != nil {
			if !fallback {
				return nil, err
			}
			c.Logger.Warn("layout cache disabled", "backend", cc.Backend, "error", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	case config.BackendFile, "":
		fc, err := cache.NewFileCache(cc.Dir)
		if err != nil {
			return nil, fmt.Errorf("open cache dir: %w", err)
		}
		return fc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cc.Backend)
	}
}
