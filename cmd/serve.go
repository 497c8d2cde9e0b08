package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursematch/internal/logging"
	"github.com/kamusis/coursematch/internal/server"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recommendations over HTTP",
	Long: `Load the catalog and embeddings provider once and serve:

  GET /api/v1/recommend?q=<text>&k=<n>
  GET /api/v1/catalog
  GET /healthz/live, /healthz/ready
  GET /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	svc, err := openService(startCtx, cfg, cfg.MinScore)
	cancel()
	if err != nil {
		return err
	}

	logger := logging.Logger()
	logger.Info().
		Int("courses", svc.Catalog().Size()).
		Str("model", svc.Catalog().ModelID()).
		Msg("catalog ready")

	srv := server.New(svc, server.Options{Addr: addr, TopN: cfg.TopN}, logger)
	return srv.Run(ctx)
}
