// Package main provides the entry point for the skyfare pricing API server
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"skyfare/internal/api/routes"
	"skyfare/internal/config"
	"skyfare/internal/database"
	"skyfare/internal/logger"
	"skyfare/internal/metrics"
	"skyfare/internal/pricing"
	"skyfare/internal/repository/postgres"
	"skyfare/internal/validation"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	flag.Parse()

	// Load environment file
	if err := godotenv.Load(*envFile); err != nil && *envFile == ".env" {
		log.Printf("Warning: %v", err)
	}

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New()

	// Initialize database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logg.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.Database); err != nil {
		logg.Fatal("failed to run migrations", "error", err)
	}

	// Initialize validators
	validation.Initialize()

	// Wire the pricing engine
	m := metrics.New("skyfare")
	bookingStatsRepo := postgres.NewBookingStatsRepository(db)
	flightRepo := postgres.NewFlightRepository(db)
	historyRepo := postgres.NewPriceHistoryRepository(db, cfg.Pricing.HistoryRetention)

	routeStats := pricing.NewRouteStatsCache(bookingStatsRepo, cfg.Pricing, logg, m)
	engine := pricing.NewEngine(cfg.Pricing, routeStats, logg, m)
	orchestrator := pricing.NewOrchestrator(engine, flightRepo, historyRepo, cfg.Pricing, logg, m)

	if engine.ModelReady() {
		logg.Info("pricing model active")
	} else {
		logg.Info("pricing model not loaded, rule-based fallback active")
	}

	// Start the batch repricing scheduler
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()

	scheduler := pricing.NewScheduler(orchestrator, cfg.Pricing.BatchSchedule, logg)
	go func() {
		if err := scheduler.Start(schedulerCtx); err != nil {
			logg.Error("batch scheduler stopped", "error", err)
		}
	}()

	// Setup routes
	router := routes.SetupRoutes(cfg, db, engine, orchestrator)

	// Convert port string to int
	port, err := strconv.Atoi(cfg.API.Port)
	if err != nil {
		logg.Fatal("invalid port number", "error", err)
	}

	// Create server with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logg.Info("starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down server")

	cancelScheduler()

	// Give outstanding requests 5 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Fatal("server forced to shutdown", "error", err)
	}

	logg.Info("server exiting")
}
