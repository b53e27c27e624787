package http

import (
	"github.com/gin-gonic/gin"

	"github.com/platewise/nutrition-engine/config"
	"github.com/platewise/nutrition-engine/internal/platform/logger"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *logger.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		nutrition := v1.Group("/nutrition")
		{
			nutrition.POST("/calculate", handler.Calculate)
		}

		discovery := v1.Group("/discovery")
		{
			discovery.POST("/queue", handler.QueueDiscovery)
			discovery.POST("/process", handler.ProcessQueue)
			discovery.POST("/requeue", handler.RequeueFailed)
		}
	}

	return router
}
