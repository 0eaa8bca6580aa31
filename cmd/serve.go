package cmd

import (
	"github.com/spf13/cobra"

	"github.com/JakeFAU/llmstxt-crawler/internal/server"
)

// newServeCmd creates the 'serve' subcommand, which runs the HTTP API until
// interrupted.
func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the llms.txt generator HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := resolveRuntime(cmd.Context())
			if err != nil {
				return err
			}
			cfg := rt.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			app, err := server.NewApp(cfg, rt.logger)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")
	return cmd
}
