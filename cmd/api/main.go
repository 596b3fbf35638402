package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/user/psp-report-service/internal/app"
	"github.com/user/psp-report-service/internal/delivery/http/handler"
	"github.com/user/psp-report-service/internal/delivery/http/router"
	"github.com/user/psp-report-service/pkg/config"
	"github.com/user/psp-report-service/pkg/logger"
	"github.com/user/psp-report-service/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Could not load config", "error", err)
		os.Exit(1)
	}

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.LogLevel)
	logger.Init(os.Stdout, logLevel, cfg.LogFormat)
	slog.Info("Logger initialized", "level", logLevel.String(), "format", cfg.LogFormat)

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	// --- Services ---
	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("Unable to initialize services", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(application.Extractor)
	if application.Redis != nil {
		apiHandler.AddHealthCheck("redis", func(ctx context.Context) error {
			return application.Redis.Ping(ctx).Err()
		})
	}
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.ExtractTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.ServerPort, "portal", cfg.PortalURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}
