package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/yahtzee-go/internal/api"
	"github.com/mcoot/yahtzee-go/internal/factory"
	"github.com/mcoot/yahtzee-go/internal/web/sse"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the dice game server",
		Long: `Run the dice game HTTP server.

Every flag can also be set through the environment with a YAHTZEE_ prefix,
for example YAHTZEE_STORAGE=redis and YAHTZEE_REDIS_URL=redis://cache:6379.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	registerFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg serverConfig) error {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	cfg.Factory.Logger = logger
	app, err := factory.New(cfg.Factory)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close error", slog.String("error", err.Error()))
		}
	}()

	server := api.NewServer(app.Router(), cfg.Server, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go cleanupHubs(ctx, app.HubManager, cfg.CleanupInterval, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server configured",
		slog.String("storage", app.StorageType()),
		slog.Duration("roll_duration", cfg.Factory.Animation.Duration),
		slog.String("public_url", cfg.Factory.PublicURL),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

// cleanupHubs closes event hubs nobody is watching any more
func cleanupHubs(ctx context.Context, hubs *sse.HubManager, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := hubs.CleanupEmptyHubs(); n > 0 {
				logger.Debug("closed idle event hubs", slog.Int("count", n))
			}
		}
	}
}
