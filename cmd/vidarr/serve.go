package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amaumene/vidarr/internal/api"
	"github.com/amaumene/vidarr/internal/api/handlers"
	"github.com/amaumene/vidarr/internal/controllers"
	"github.com/amaumene/vidarr/internal/metrics"
	"github.com/amaumene/vidarr/internal/models"
	"github.com/amaumene/vidarr/internal/queue"
	"github.com/amaumene/vidarr/internal/scheduler"
	"github.com/amaumene/vidarr/internal/services/ytdlp"
	"github.com/amaumene/vidarr/internal/telemetry"
	"github.com/amaumene/vidarr/internal/ws"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	// 1. Load configuration and logger
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	logger.Info("Starting Vidarr")
	logger.WithField("config_dir", cfg.ConfigDir).Info("Configuration loaded")

	shutdownTracing := telemetry.Setup(logger)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.WithError(err).Warn("Tracing shutdown failed")
		}
	}()

	// 2. Initialize catalog store
	store, err := models.NewCatalogStore(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog store: %w", err)
	}
	defer store.Close()
	logger.Info("Catalog store initialized")

	// 3. Initialize services
	inspector := ytdlp.NewCachedInspector(ytdlp.NewClient(cfg, logger), store, cfg.CatalogCacheTTL(), logger)
	m := metrics.New()

	// 4. Initialize queue and controllers
	q := queue.NewManager(logger)
	q.OnChange(m.ObserveQueue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub(q.List, logger)
	go hub.Run(ctx)
	q.OnChange(hub.PublishQueueEvent)

	searches := controllers.NewSearchController(inspector, cfg.SearchSessionTTL(), m, logger)
	queueCtrl := controllers.NewQueueController(searches, q, m, logger)
	logger.Info("Controllers initialized")

	// 5. Initialize scheduler
	sched := scheduler.NewScheduler(store, searches, q, m, cfg.CatalogCacheTTL(), logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 6. Initialize HTTP server
	checks := map[string]handlers.HealthCheck{"catalog_store": store.Ping}
	server := api.NewServer(cfg, searches, queueCtrl, hub, m, checks, logger)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 7. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Vidarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	if pending := q.Len(); pending > 0 {
		logger.WithField("pending", pending).Warn("Discarding queued jobs on shutdown")
	}
	logger.Info("Vidarr stopped")
	return nil
}
