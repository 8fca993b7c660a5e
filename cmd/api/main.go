package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redscope/engagement-backend/internal/api/rest"
	"github.com/redscope/engagement-backend/internal/infrastructure/config"
	"github.com/redscope/engagement-backend/internal/infrastructure/telemetry"
	"github.com/redscope/engagement-backend/internal/service/analytics"
	"github.com/redscope/engagement-backend/internal/service/ingestion"
	"github.com/redscope/engagement-backend/internal/service/recon"
	"github.com/redscope/engagement-backend/internal/service/triage"
	"github.com/redscope/engagement-backend/internal/store"
)

func main() {
	var configPath = flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := telemetry.SetupLogger(cfg.LogLevel)

	st := store.New()
	handler := rest.NewHandler(
		logger,
		st,
		analytics.NewService(st),
		triage.NewService(st, rest.NewTriageMetrics()),
		recon.NewService(st, st),
		ingestion.NewService(st),
	)

	server := rest.NewServer(cfg, logger, handler)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
			os.Exit(1)
		}
	}
}
