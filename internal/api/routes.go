package api

import (
	"github.com/gin-gonic/gin"

	"github.com/firehallhq/cadintel/internal/telemetry"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler, tel *telemetry.Provider) {
	// Health, readiness, and metrics
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	router.GET("/metrics", gin.WrapH(tel.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		incidents := v1.Group("/incidents/:id")
		{
			incidents.POST("/comments/parse", handler.ParseComments)           // POST /api/v1/incidents/:id/comments/parse
			incidents.GET("/comments", handler.GetComments)                    // GET  /api/v1/incidents/:id/comments
			incidents.GET("/review", handler.GetReviewQueue)                   // GET  /api/v1/incidents/:id/review
			incidents.POST("/comments/corrections", handler.ApplyCorrections)  // POST /api/v1/incidents/:id/comments/corrections
			incidents.POST("/comments/reviewed", handler.MarkReviewed)         // POST /api/v1/incidents/:id/comments/reviewed
			incidents.POST("/timestamps/:index/mapping", handler.MapTimestamp) // POST /api/v1/incidents/:id/timestamps/:index/mapping
		}

		model := v1.Group("/model")
		{
			model.GET("/stats", handler.GetModelStats) // GET  /api/v1/model/stats
			model.POST("/retrain", handler.Retrain)    // POST /api/v1/model/retrain
		}

		v1.GET("/fields", handler.GetFields) // GET /api/v1/fields
	}
}
