package http

import (
	"github.com/feedlink/backend/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(PasswordMiddleware(cfg.Auth.Password))
	{
		feeds := v1.Group("/feeds")
		{
			feeds.GET("", handler.ListFeeds)
			feeds.POST("/:source/convert", handler.ConvertFeed)
		}

		v1.POST("/convert", handler.ConvertUpload)

		commands := v1.Group("/commands")
		{
			commands.POST("/translate", handler.TranslateCommand)
			commands.POST("/execute", handler.ExecuteCommand)
		}
	}

	return router
}
