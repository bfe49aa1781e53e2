package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	server "todoapi/internal/adapter/http"
	"todoapi/internal/adapter/telemetry"
	"todoapi/pkg/config"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appConfig := config.Load()

	if appConfig.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := config.NewLogger(appConfig.ServiceName, appConfig.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	tel, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    appConfig.ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    appConfig.Environment,
		MetricsPort:    appConfig.MetricsPort,
		OTLPEndpoint:   appConfig.OTLPEndpoint,
	}, slog.Default())

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to flush telemetry", "error", err)
		}
	}()

	srv, err := server.NewServer(ctx, appConfig, tel.AppMetrics, logger, tel.NewTelemetryProbe(slog.Default()))

	if err != nil {
		log.Fatal("Failed to build server:", err)
	}

	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
		return
	}

	slog.Info("Shutdown complete")
}
