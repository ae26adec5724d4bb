package http

import (
	"github.com/gin-gonic/gin"
	"github.com/pricescout/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.Auth.Enabled() {
		v1.Use(gin.BasicAuth(gin.Accounts{cfg.Auth.Username: cfg.Auth.Password}))
	}
	{
		v1.GET("/catalog", handler.Catalog)
		v1.POST("/compare", handler.Compare)
		v1.POST("/arbitrage", handler.Arbitrage)

		anomalies := v1.Group("/anomalies")
		{
			anomalies.POST("", handler.DetectAnomalies)
			anomalies.POST("/variants", handler.DetectVariantAnomalies)
		}
	}

	return router
}
