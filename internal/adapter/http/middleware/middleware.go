package middleware

import (
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
	"todoapi/pkg/response"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// SetupGinMiddlewareWithConfig installs the global chain. Recovery must stay
// below logging and metrics.
func SetupGinMiddlewareWithConfig(router *gin.Engine, metrics *telemetry.AppMetrics, logger *config.Logger, appConfig *config.AppConfig) {
	httpsEnforcer := config.NewHTTPSEnforcer(appConfig.EnforceHTTPS, logger.Zap())
	router.Use(httpsEnforcer.HTTPSMiddleware())

	router.Use(otelgin.Middleware(appConfig.ServiceName))
	router.Use(CurrentMiddleware())
	router.Use(LoggingMiddleware(logger))
	router.Use(MetricsMiddleware(metrics))
	router.Use(RecoveryMiddleware(logger, metrics))
	router.Use(CORSMiddleware())

	if appConfig.RateLimitEnabled {
		rateLimiter := config.NewRateLimiter(appConfig.RateLimitConfigs, logger.Zap(), metrics)
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	if appConfig.CacheEnabled {
		responseCache := response.NewResponseCache(appConfig.CacheTTL, logger.Zap(), metrics)
		router.Use(responseCache.CacheMiddleware())
	}
}
