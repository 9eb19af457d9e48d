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

	"github.com/lutefd/cricket-api/internal/auth"
	"github.com/lutefd/cricket-api/internal/config"
	"github.com/lutefd/cricket-api/internal/dashboard"
	"github.com/lutefd/cricket-api/internal/events"
	httpserver "github.com/lutefd/cricket-api/internal/http"
	"github.com/lutefd/cricket-api/internal/live"
	"github.com/lutefd/cricket-api/internal/logging"
	"github.com/lutefd/cricket-api/internal/metrics"
	"github.com/lutefd/cricket-api/internal/projections"
	"github.com/lutefd/cricket-api/internal/scorer"
	"github.com/lutefd/cricket-api/internal/storage/postgres"
	"github.com/lutefd/cricket-api/internal/telemetry"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	bus := events.NewBus()
	hub := live.NewHub(cfg.LiveBuffer)
	hub.Register(bus)
	projection := projections.NewService(store, logger.Named("projections"))
	projection.Register(bus)

	srv, err := httpserver.NewServer(httpserver.Dependencies{
		Store:       store,
		Scorer:      scorer.NewService(store, bus, logger.Named("scorer")),
		Projections: projection,
		Dashboard:   dashboard.NewService(store),
		Hub:         hub,
		Metrics:     metrics.NewRecorder(cfg.MetricsWindow),
		Verifier:    auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer),
		Logger:      logger.Named("http"),
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("api listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen and serve: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	// Closing the hub ends open live streams so Shutdown does not wait on them.
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	return nil
}
