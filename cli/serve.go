package cli

import (
	"github.com/spf13/cobra"

	"github.com/Deepayan-S/FoodScanner/server"
)

func newServeCmd(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scan API over HTTP",
		Long: `Serve the scan API:

  POST /api/scan               multipart field "image" or a raw image body
  GET  /api/products/{barcode} product lookup without scanning
  GET  /health                 liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.container()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = e.cfg.Server.Addr
			}
			api := server.NewAPI(c.Static, c.Lookup, e.cfg.Server.MaxUploadMB, e.logger.With("component", "http"))
			return server.ListenAndServe(cmd.Context(), addr, api.NewRouter(), e.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
