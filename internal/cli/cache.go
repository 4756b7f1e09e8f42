package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawctl/internal/config"
	"github.com/matzehuels/drawctl/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layout results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache.Backend == config.BackendNone {
				c.printInfo("Caching is disabled")
				return nil
			}
			ch, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("%s cache cannot be cleared", c.Config.Cache.Backend)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			c.printSuccess("Cleared layout cache")
			c.printDetail("Backend: %s (%s)", c.Config.Cache.Backend, c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where layout results are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.out, c.cacheLocation())
			return nil
		},
	}
}

func (c *CLI) cacheLocation() string {
	switch c.Config.Cache.Backend {
	case config.BackendRedis:
		return c.Config.Cache.RedisURL
	case config.BackendNone:
		return "none"
	default:
		return c.Config.Cache.Dir
	}
}
