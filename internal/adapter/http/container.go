package http

import (
	"context"
	"fmt"
	"os"

	"todoapi/internal/adapter/database/memory"
	database "todoapi/internal/adapter/database/sqlite"
	repository "todoapi/internal/adapter/database/sqlite/repository"
	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/port"
	"todoapi/internal/core/service"
	"todoapi/pkg/config"

	"github.com/rs/zerolog"
)

type Container struct {
	TodoRepo    port.TodoRepository
	TodoService port.TodoService

	TodoHandler   *handler.TodoHandler
	HealthHandler *handler.HealthHandler
}

// NewContainer builds the object graph for the configured store.
func NewContainer(ctx context.Context, appConfig *config.AppConfig, logger *config.Logger, probe port.Telemetry) (*Container, error) {
	todoRepo, err := newTodoRepository(ctx, appConfig, probe)
	if err != nil {
		return nil, err
	}

	todoSvc := service.NewTodoService(todoRepo, validation.NewValidator(), probe)

	return &Container{
		TodoRepo:      todoRepo,
		TodoService:   todoSvc,
		TodoHandler:   handler.NewTodoHandler(todoSvc, logger),
		HealthHandler: handler.NewHealthHandler(),
	}, nil
}

func (c *Container) Close() error {
	return c.TodoRepo.Close()
}

func newTodoRepository(ctx context.Context, appConfig *config.AppConfig, probe port.Telemetry) (port.TodoRepository, error) {
	switch appConfig.Store {
	case config.StoreMemory, "":
		return memory.NewTodoRepository(probe), nil
	case config.StoreSQLite:
		level := zerolog.InfoLevel
		if appConfig.Environment == "development" {
			level = zerolog.DebugLevel
		}

		db, err := database.NewDB(database.Options{
			DSN:       database.MemoryDSN,
			LogWriter: os.Stdout,
			LogLevel:  level,
		})
		if err != nil {
			return nil, err
		}

		return repository.NewTodoRepository(ctx, db, probe)
	default:
		return nil, fmt.Errorf("unknown todo store %q", appConfig.Store)
	}
}
