package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-graph-index/pkg/config"
	"github.com/adfharrison1/go-graph-index/pkg/logging"
	"github.com/adfharrison1/go-graph-index/pkg/server"
)

func newServeCmd() *cobra.Command {
	var (
		port             string
		schemaFile       string
		snapshotFile     string
		snapshotInterval string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP index server",
		Long: `Start the HTTP index server.

Without a snapshot file, indexes live only in memory. With one, the last
snapshot is loaded on start and a new one is written on graceful shutdown.
A snapshot interval also saves periodically in the background.`,
		Example: `  graphidx serve --schema schema.yaml
  graphidx serve --port 9090 --snapshot-file graphidx.gidx --snapshot-interval 5m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := applyServeFlags(cmd, &cfg, port, schemaFile, snapshotFile, snapshotInterval); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Server port (GRAPHIDX_PORT)")
	cmd.Flags().StringVar(&schemaFile, "schema", "", "Schema file (GRAPHIDX_SCHEMA_FILE)")
	cmd.Flags().StringVar(&snapshotFile, "snapshot-file", "", "Snapshot file (GRAPHIDX_SNAPSHOT_FILE)")
	cmd.Flags().StringVar(&snapshotInterval, "snapshot-interval", "", "Background snapshot interval, e.g. 30s or 5m (GRAPHIDX_SNAPSHOT_INTERVAL)")

	return cmd
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config, port, schemaFile, snapshotFile, snapshotInterval string) error {
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if cmd.Flags().Changed("schema") {
		cfg.SchemaFile = schemaFile
	}
	if cmd.Flags().Changed("snapshot-file") {
		cfg.SnapshotFile = snapshotFile
	}
	if cmd.Flags().Changed("snapshot-interval") {
		d, err := time.ParseDuration(snapshotInterval)
		if err != nil {
			return fmt.Errorf("invalid --snapshot-interval: %w", err)
		}
		cfg.SnapshotInterval = d
	}
	if cfg.SnapshotInterval > 0 && cfg.SnapshotFile == "" {
		return errors.New("a snapshot interval requires a snapshot file")
	}
	return nil
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger := logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	reg, err := loadRegistry(cfg.SchemaFile, cfg.IndexPrefix)
	if err != nil {
		return err
	}
	logger.Info("schema loaded", "file", cfg.SchemaFile, "classes", len(reg.Classes()), "prefix", reg.NamePrefix())

	options := []server.Option{server.WithLogger(logger)}
	if cfg.SnapshotFile != "" {
		options = append(options, server.WithSnapshots(cfg.SnapshotFile, cfg.SnapshotInterval))
	} else {
		logger.Warn("no snapshot file configured, indexes are kept in memory only")
	}

	srv := server.NewServer(reg, options...)
	if err := srv.Start(); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting graphidx server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			srv.Stop()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if err := srv.Stop(); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}
