package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/observability/promhooks"
	"github.com/matzehuels/orbit/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API over HTTP with a shared cache",
		Long: `Serve every data source as JSON over HTTP.

All requests share one response cache, and concurrent requests for the same
document cost a single upstream fetch. Prometheus metrics are exposed on
/metrics. The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  orbit serve
  orbit serve --listen 127.0.0.1:9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := c.newSpace()
			if err != nil {
				return err
			}
			defer sc.Close()

			addr := sc.Config().Server.Listen
			if cmd.Flags().Changed("listen") {
				addr = listen
			}

			promhooks.New(prometheus.DefaultRegisterer).Install()
			return server.New(sc, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8080)")

	return cmd
}
