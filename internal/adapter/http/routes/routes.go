package routes

import (
	"todoapi/internal/adapter/http/handler"
	. "todoapi/internal/adapter/http/helper"
	"todoapi/internal/adapter/http/middleware"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"

	"github.com/gin-gonic/gin"
)

type HandlersConfig struct {
	TodoHandler   *handler.TodoHandler
	HealthHandler *handler.HealthHandler
}

func SetupRouter(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.Logger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, config.GetDefaultConfig())
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.Logger, appConfig *config.AppConfig) *gin.Engine {
	router := gin.New()

	middleware.SetupGinMiddlewareWithConfig(router, metrics, logger, appConfig)

	registerRoutes(router, handlers)

	return router
}

// SetupRouterForTests wires the handlers behind recovery and CORS only.
func SetupRouterForTests(handlers HandlersConfig, logger *config.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.RecoveryMiddleware(logger, nil))
	router.Use(middleware.CORSMiddleware())

	registerRoutes(router, handlers)

	return router
}

func registerRoutes(router *gin.Engine, handlers HandlersConfig) {
	if handlers.HealthHandler != nil {
		router.GET("/health", handlers.HealthHandler.Health)
	}

	if handlers.TodoHandler != nil {
		todos := router.Group("/todos")
		{
			todos.GET("", handlers.TodoHandler.GetAllTodos)
			todos.GET("/:id", handlers.TodoHandler.GetTodo)
			todos.POST("", handlers.TodoHandler.CreateTodo)
			todos.PUT("/:id", handlers.TodoHandler.UpdateTodo)
			todos.DELETE("/:id", handlers.TodoHandler.DeleteTodo)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		SendNotFoundError(c, MessageEndpointNotFound)
	})
}
