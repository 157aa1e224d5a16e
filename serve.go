package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/savid/radioinfo/handlers"
	"github.com/savid/radioinfo/internal/metrics"
	"github.com/savid/radioinfo/pkg/data"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Refresh schedules on a timer and serve them over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store := data.NewStore()
	fetcher := data.NewFetcher(cfg, logger, m)
	pipeline := data.NewPipeline(fetcher, logger, m)
	refresher := data.NewRefresher(store, pipeline, cfg.RefreshCron, logger, m)
	refresher.OnUpdate(func(s *data.Snapshot) {
		logger.WithField("run_id", s.RunID).
			WithField("updated", s.UpdatedLabel()).
			Debug("Snapshot published")
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		if err := refresher.Start(ctx); err != nil {
			logger.WithError(err).Error("Refresher stopped")
			cancel()
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handlers.Routes(ctx, store, refresher, reg, m, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
		case <-ctx.Done():
		}
		logger.Info("Shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to gracefully shutdown")
		}
	}()

	logger.WithField("port", cfg.Port).Info("Starting radio schedule server")
	logger.WithField("schedule", cfg.RefreshCron).Info("Scheduled updates enabled")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
