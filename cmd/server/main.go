package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/helpforge/helpaudit/internal/api"
	"github.com/helpforge/helpaudit/internal/config"
	"github.com/helpforge/helpaudit/internal/dms"
	"github.com/helpforge/helpaudit/internal/scan"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the document store client.
	store := dms.NewClient(dms.Config{
		BaseURL:     cfg.DMSBaseURL,
		AuthToken:   cfg.DMSAuthToken,
		Timeout:     cfg.FetchTimeout,
		PageSize:    cfg.DMSPageSize,
		InsecureTLS: cfg.DMSInsecureTLS,
	})

	// Initialize the scan service.
	scanner := scan.NewScanner(store, log, scan.Options{
		Workers:      cfg.DocumentWorkers,
		ProbeWorkers: cfg.ProbeConcurrency,
		ProbeTimeout: cfg.ProbeTimeout,
	})
	scans := scan.NewService(scanner, log, scan.ServiceConfig{
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		JobTTL:       cfg.JobTTL,
	})
	scans.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(scans, store, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		scans.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		store.Close()
	}()

	log.Info("starting helpaudit", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
