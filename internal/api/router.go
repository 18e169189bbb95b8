package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/api/handlers"
	"github.com/shopmirror/storesync/internal/api/middleware"
	"github.com/shopmirror/storesync/internal/config"
	"github.com/shopmirror/storesync/internal/crypto"
	"github.com/shopmirror/storesync/internal/repository"
	"github.com/shopmirror/storesync/internal/sync"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, cipher *crypto.TokenCipher, runner *sync.Runner, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-API-Key"},
		MaxAge:       12 * time.Hour,
	}
	if len(cfg.API.AllowedOrigins) == 1 && cfg.API.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.API.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	v1.Use(middleware.Auth(cfg, logger))
	{
		v1.GET("/stores", handlers.HandleListStores(repos, logger))
		v1.POST("/stores", handlers.HandleCreateStore(repos, cipher, logger))
		v1.POST("/stores/test", handlers.HandleTestConnection(logger))
		v1.DELETE("/stores/:id", handlers.HandleDeleteStore(repos, logger))

		v1.GET("/integrations", handlers.HandleListIntegrations(repos, logger))
		v1.POST("/integrations", handlers.HandleCreateIntegration(repos, logger))
		v1.DELETE("/integrations/:id", handlers.HandleDeleteIntegration(repos, logger))
		v1.GET("/integrations/:id/settings", handlers.HandleGetSyncSettings(repos, logger))
		v1.PUT("/integrations/:id/settings", handlers.HandleUpdateSyncSettings(repos, logger))

		v1.POST("/integrations/:id/sync", handlers.HandleFullSync(runner, logger))
		v1.POST("/integrations/:id/sync/inventory", handlers.HandleInventorySync(runner, logger))
		v1.GET("/integrations/:id/logs", handlers.HandleListSyncLogs(repos, logger))
		v1.GET("/integrations/:id/logs/:logId", handlers.HandleGetSyncLog(repos, logger))
		v1.GET("/integrations/:id/mappings", handlers.HandleListMappings(repos, logger))

		v1.POST("/inventory/compare", handlers.HandleCompareInventory(repos, cipher, logger))
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
