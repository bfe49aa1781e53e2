package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"todoapi/internal/adapter/http/routes"
	"todoapi/internal/core/port"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
)

type Server struct {
	config    *config.AppConfig
	container *Container
	srv       *http.Server
}

// NewServer wires the container and router for appConfig.
func NewServer(ctx context.Context, appConfig *config.AppConfig, metrics *telemetry.AppMetrics, logger *config.Logger, probe port.Telemetry) (*Server, error) {
	container, err := NewContainer(ctx, appConfig, logger, probe)
	if err != nil {
		return nil, err
	}

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		TodoHandler:   container.TodoHandler,
		HealthHandler: container.HealthHandler,
	}, metrics, logger, appConfig)

	return &Server{
		config:    appConfig,
		container: container,
		srv: &http.Server{
			Addr:         ":" + appConfig.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	port := s.config.Port

	slog.Info("Server starting",
		"port", port,
		"environment", s.config.Environment,
		"store", s.config.Store,
		"rate_limit_enabled", s.config.RateLimitEnabled,
		"cache_enabled", s.config.CacheEnabled,
		"https_enforced", s.config.EnforceHTTPS)

	slog.Info("Server is running on port " + port)
	slog.Info("Health check: http://localhost:" + port + "/health")
	slog.Info("Todos API: http://localhost:" + port + "/todos")

	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.container.Close()
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.srv.Shutdown(shutdownCtx)

	if closeErr := s.container.Close(); closeErr != nil {
		slog.Error("Failed to close todo store", "error", closeErr)
	}

	return err
}
