// Package routes handles the setup and configuration of API routes
package routes

import (
	"database/sql"

	"skyfare/internal/api/handlers"
	"skyfare/internal/api/middleware"
	"skyfare/internal/config"
	"skyfare/internal/pricing"
	"skyfare/internal/repository/postgres"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes and their handlers. The pricing
// engine and orchestrator are built in main so the batch scheduler can
// share them.
func SetupRoutes(cfg *config.Config, db *sql.DB, engine *pricing.Engine, orchestrator *pricing.Orchestrator) *gin.Engine {
	// Create router
	r := gin.Default()

	// Metrics endpoint is exempt from rate limiting
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Apply rate limiting to all other routes
	r.Use(middleware.NewRateLimiter(cfg).Middleware())

	// Initialize repositories
	flightRepo := postgres.NewFlightRepository(db)
	historyRepo := postgres.NewPriceHistoryRepository(db, cfg.Pricing.HistoryRetention)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	flightHandler := handlers.NewFlightHandler(flightRepo, historyRepo)
	pricingHandler := handlers.NewPricingHandler(engine, orchestrator, flightRepo, historyRepo)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthHandler.Health)

		// Flight routes
		flights := v1.Group("/flights")
		{
			flights.GET("", flightHandler.ListFlights)
			flights.GET("/:id", flightHandler.GetFlight)
			flights.PUT("/:id/price", flightHandler.UpdatePrice)
			flights.GET("/:id/price/predict", pricingHandler.PredictForFlight)
			flights.GET("/:id/price-history", pricingHandler.PriceHistory)
		}

		// Pricing routes
		pricingRoutes := v1.Group("/pricing")
		{
			pricingRoutes.POST("/predict", pricingHandler.Predict)
			pricingRoutes.POST("/batch-update", pricingHandler.BatchUpdate)
		}
	}

	return r
}
