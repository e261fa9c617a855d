package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/openelect/ballot-pipeline/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Ballot submission (requires an authenticated counter)
		v1.POST("/stations/:station_id/ballots", middleware.Auth(authCfg), handler.SubmitBallot)

		// Entry audit listing (requires authentication)
		v1.GET("/stations/:station_id/ballots", middleware.Auth(authCfg), handler.ListBallotEntries)

		// Results read API (public read access)
		v1.GET("/stations/:station_id/results", handler.GetStationResults)
		v1.GET("/stations/:station_id/summary", handler.GetStationSummary)
		v1.GET("/stations/:station_id/aggregates", handler.GetStationAggregates)
	}
}
