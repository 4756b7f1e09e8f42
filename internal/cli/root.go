package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawctl/internal/config"
	"github.com/matzehuels/drawctl/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               config.AppName,
		Short:             "drawctl edits draw.io diagrams declaratively",
		Long:              `drawctl builds draw.io diagrams through batches of add, edit, link and remove operations. Each batch loads the diagram, applies its operations in order, optionally lays the diagram out, and saves it once.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.createCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.SetLogLevel(cfg.LogLevel())
	c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend, "diagrams", cfg.Diagrams.Dir)
	return nil
}
