package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/btlforms/form283/internal/config"
	"github.com/btlforms/form283/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the form283 server",
	Long: `Start the form283 HTTP API server.

The server provides:
  - /health           - Basic server health check
  - /status           - Detailed status including provider configuration
  - /api/v1/schema    - The form record schema
  - /api/v1/reports   - Validate an extracted record
  - /api/v1/pipeline  - OCR + extract + validate a scanned PDF

Examples:
  form283 serve                    # Start on default port 8080
  form283 serve --port 3000        # Start on custom port
  form283 serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		mgr.WatchConfig()

		host := serveHost
		if host == "" {
			host = mgr.Get().Server.Host
		}
		port := servePort
		if port == "" {
			port = mgr.Get().Server.Port
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: mgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
