package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dropdown/internal/config"
	"github.com/vango-dev/dropdown/internal/demo"
	"github.com/vango-dev/dropdown/pkg/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser demo",
		Long: `Serve the dropdown demo over HTTP.

Routes:
  GET /         server-rendered page with the thin client
  GET /_ws      WebSocket event stream
  GET /metrics  Prometheus metrics
  GET /healthz  liveness probe

Examples:
  dropdown serve
  dropdown serve --addr=:3000 --hoverable
  DROPDOWN_SERVER_ADDR=:3000 dropdown serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd)
		},
	}

	cmd.Flags().String("addr", ":8080", "Address to listen on")
	cmd.Flags().Bool("hoverable", false, "Open and close the dropdown on hover")
	cmd.Flags().Bool("open", false, "Start with the dropdown open")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	sc := cfg.ServerConfig(logger)
	sc.Styles = []string{demo.Styles}

	srv := server.New(sc, demo.Page(demo.Options{
		Open:      cfg.Dropdown.Open,
		Hoverable: cfg.Dropdown.Hoverable,
		Class:     cfg.Dropdown.Class,
	}))

	success("Serving on %s", sc.Address)
	info("Press Ctrl+C to stop")
	return srv.ListenAndServe(ctx)
}

// loadConfig loads configuration with the command's flags bound.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path, cmd.Flags())
}
