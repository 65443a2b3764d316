package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/analyze"
	"github.com/evcraddock/litetravel/internal/config"
	"github.com/evcraddock/litetravel/internal/logging"
	"github.com/evcraddock/litetravel/internal/maps"
	"github.com/evcraddock/litetravel/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the LiteTravel HTTP API server. Settings come from LT_* environment variables and an optional .env file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default: LT_PORT or 8080)")

	return cmd
}

func runServe(ctx context.Context, port int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if port != 0 {
		cfg.Port = port
	}

	logging.Setup(cfg.DevMode)

	database, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeDB(database)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mp := maps.New(cfg.AMapKey)
	if cfg.AMapKey == "" {
		slog.Warn("LT_AMAP_KEY not set, using mock map data")
	}

	provider, err := analyze.NewProvider(ctx, cfg.LLM())
	if err != nil {
		return fmt.Errorf("creating analysis provider: %w", err)
	}
	pipeline := analyze.NewPipeline(provider, cfg.LLMConcurrency)
	pipeline.Register(analyze.MockSource{})
	pipeline.Register(analyze.NewMapSource(mp))

	return web.NewServer(database, cfg, mp, pipeline).ListenAndServe(ctx)
}
