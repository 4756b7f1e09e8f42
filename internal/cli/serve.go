package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawctl/internal/metrics"
	"github.com/matzehuels/drawctl/pkg/transport/httpapi"
	"github.com/matzehuels/drawctl/pkg/transport/mcp"
)

// serveCommand creates the parent command for the long-running transports.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve diagram operations to other programs",
	}
	cmd.AddCommand(c.serveMCPCommand())
	cmd.AddCommand(c.serveHTTPCommand())
	return cmd
}

func (c *CLI) serveMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run a Model Context Protocol server on stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout. The server exposes the
create_diagram, add_nodes, edit_nodes, link_nodes, remove_nodes and
get_diagram_info tools. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			c.Logger.Info("mcp server starting", "diagrams", c.Config.Diagrams.Dir)
			return mcp.NewServer(svc, c.Logger).Serve()
		},
	}
}

func (c *CLI) serveHTTPCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Run the JSON HTTP API",
		Long: `Run the JSON HTTP API. Prometheus metrics are served on /metrics and a
liveness probe on /healthz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := metrics.New()
			m.Install()

			svc, closeFn, err := c.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if addr == "" {
				addr = c.Config.HTTP.Addr
			}
			srv := httpapi.NewServer(svc, httpapi.Options{
				Addr:    addr,
				Logger:  c.Logger,
				Metrics: m.Handler(),
			})
			c.printInfo("Listening on http://%s", srv.Addr())
			return srv.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
