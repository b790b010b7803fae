package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(handlers *Handlers) *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(corsMiddleware())

	// API routes
	api := router.Group("/api")
	{
		// Data ingestion (no auth required for local use)
		data := api.Group("/data")
		{
			data.POST("/upload", handlers.UploadHandler)
		}

		// Report routes
		reports := api.Group("/reports")
		{
			reports.POST("/generate", handlers.GenerateReportHandler)
			reports.POST("/generate-sync", handlers.GenerateReportSyncHandler)
			reports.GET("/status/:taskId", handlers.GetTaskStatusHandler)
			reports.GET("/aggregation/:sessionId", handlers.GetAggregationHandler)
			reports.POST("/analyze", handlers.AnalyzeHandler)
			reports.POST("/from-aggregation", handlers.BuildFromAggregationHandler)
			reports.GET("/download/:filename", handlers.DownloadHandler)
		}

		// Session cache routes
		cache := api.Group("/cache")
		{
			cache.GET("/info/:sessionId", handlers.CacheInfoHandler)
			cache.GET("/history/:sessionId", handlers.HistoryHandler)
			cache.DELETE("/:sessionId", handlers.ClearCacheHandler)
			cache.DELETE("/:sessionId/analysis", handlers.ClearAnalysisHandler)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
