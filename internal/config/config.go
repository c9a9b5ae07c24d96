package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Pricing contains pricing engine configuration
	Pricing PricingConfig

	// Rate Limiting Configuration
	RateLimit struct {
		Requests int // Number of requests allowed per window
		Window   int // Time window in seconds
		Burst    int // Maximum burst size
	}
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string
	// Port is the database server port
	Port int
	// User is the database username
	User string
	// Password is the database password
	Password string
	// DBName is the database name
	DBName string
	// SSLMode is the SSL mode for the database connection
	SSLMode string
	// MigrationsPath is the path to database migrations
	MigrationsPath string
}

// PricingConfig consolidates the pricing engine defaults so the magic
// numbers live in exactly one place.
type PricingConfig struct {
	// ModelPath is the serialized regression model. A missing file means
	// the engine runs on the rule-based fallback.
	ModelPath string
	// DefaultTotalSeats substitutes a missing seat count on a flight
	DefaultTotalSeats int
	// DefaultOrigin substitutes a missing origin airport code
	DefaultOrigin string
	// DefaultDestination substitutes a missing destination airport code
	DefaultDestination string
	// NeutralScore is returned for popularity and demand when booking
	// statistics are unavailable
	NeutralScore float64
	// RouteStatsTTL bounds how long the route statistics table is served
	// before a rebuild
	RouteStatsTTL time.Duration
	// DemandWindowDays is the trailing window for demand scoring
	DemandWindowDays int
	// BatchFlightLimit caps how many flights one batch run considers
	BatchFlightLimit int
	// BatchErrorLimit caps how many per-flight errors a batch report keeps
	BatchErrorLimit int
	// HistoryRetention caps price history entries kept per flight
	HistoryRetention int
	// BatchSchedule is the cron expression for scheduled fleet repricing.
	// Empty disables the scheduler.
	BatchSchedule string
}

// DefaultPricingConfig returns the documented pricing defaults
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		ModelPath:          "model/pricing_model.json",
		DefaultTotalSeats:  180,
		DefaultOrigin:      "DEL",
		DefaultDestination: "BOM",
		NeutralScore:       0.5,
		RouteStatsTTL:      time.Hour,
		DemandWindowDays:   7,
		BatchFlightLimit:   1000,
		BatchErrorLimit:    10,
		HistoryRetention:   100,
		BatchSchedule:      "0 * * * *",
	}
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port: getEnvOrDefault("API_PORT", "8080"),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "skyfare"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: "migrations",
	}

	defaults := DefaultPricingConfig()
	c.Pricing = PricingConfig{
		ModelPath:          getEnvOrDefault("PRICING_MODEL_PATH", defaults.ModelPath),
		DefaultTotalSeats:  getEnvAsInt("PRICING_DEFAULT_TOTAL_SEATS", defaults.DefaultTotalSeats),
		DefaultOrigin:      getEnvOrDefault("PRICING_DEFAULT_ORIGIN", defaults.DefaultOrigin),
		DefaultDestination: getEnvOrDefault("PRICING_DEFAULT_DESTINATION", defaults.DefaultDestination),
		NeutralScore:       defaults.NeutralScore,
		RouteStatsTTL:      getEnvAsDuration("PRICING_ROUTE_STATS_TTL", defaults.RouteStatsTTL),
		DemandWindowDays:   getEnvAsInt("PRICING_DEMAND_WINDOW_DAYS", defaults.DemandWindowDays),
		BatchFlightLimit:   getEnvAsInt("PRICING_BATCH_FLIGHT_LIMIT", defaults.BatchFlightLimit),
		BatchErrorLimit:    getEnvAsInt("PRICING_BATCH_ERROR_LIMIT", defaults.BatchErrorLimit),
		HistoryRetention:   getEnvAsInt("PRICING_HISTORY_RETENTION", defaults.HistoryRetention),
		BatchSchedule:      getEnvOrDefault("PRICING_BATCH_SCHEDULE", defaults.BatchSchedule),
	}

	// Load rate limit configuration
	c.RateLimit.Requests = getEnvAsInt("RATE_LIMIT_REQUESTS", 1000)
	c.RateLimit.Window = getEnvAsInt("RATE_LIMIT_WINDOW", 60)
	c.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 50)

	if c.Pricing.BatchFlightLimit <= 0 {
		return fmt.Errorf("PRICING_BATCH_FLIGHT_LIMIT must be positive")
	}
	if c.Pricing.HistoryRetention <= 0 {
		return fmt.Errorf("PRICING_HISTORY_RETENTION must be positive")
	}

	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsDuration retrieves an environment variable and parses it as a duration
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
