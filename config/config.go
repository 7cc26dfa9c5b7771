package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Connect retry policy (the database may still be starting up
	// when the app container comes alive)
	DatabaseConnectRetries   int
	DatabaseConnectDelaySecs int

	// Redis configuration
	RedisHost     string
	RedisPassword string
	RedisPort     string

	// HTTP API
	ServerPort int

	// Analysis configuration
	Analysis AnalysisConfig

	// Ingestion configuration
	Ingest IngestConfig
}

// AnalysisConfig holds delta-pattern analysis parameters
type AnalysisConfig struct {
	// Target window offsets around delta_target, inclusive both ends.
	// The reference behavior is [target-1, target+1].
	WindowLowOffset  float64
	WindowHighOffset float64

	// Screener tuning
	ScreenerWorkers       int
	ScreenerTickerTimeout int // seconds, per ticker
	ScreenerCacheTTLMins  int
}

// IngestConfig holds data ingestion parameters
type IngestConfig struct {
	BaseURL      string // CafeF daily archive base
	HistoryYears int    // cutoff: bars older than this are dropped
	IndexTicker  string // broad-market index symbol
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "vnstock"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "vnstock"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "vnstock123"),

		DatabaseConnectRetries:   getEnvInt("DB_CONNECT_RETRIES", 5),
		DatabaseConnectDelaySecs: getEnvInt("DB_CONNECT_DELAY", 5),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		ServerPort: getEnvInt("SERVER_PORT", 8080),

		Analysis: AnalysisConfig{
			WindowLowOffset:  getEnvFloat("ANALYSIS_WINDOW_LOW", -1.0),
			WindowHighOffset: getEnvFloat("ANALYSIS_WINDOW_HIGH", 1.0),

			ScreenerWorkers:       getEnvInt("SCREENER_WORKERS", 8),
			ScreenerTickerTimeout: getEnvInt("SCREENER_TICKER_TIMEOUT", 30),
			ScreenerCacheTTLMins:  getEnvInt("SCREENER_CACHE_TTL", 10),
		},

		Ingest: IngestConfig{
			BaseURL:      getEnvOrDefault("INGEST_BASE_URL", "https://cafef1.mediacdn.vn/data/ami_data"),
			HistoryYears: getEnvInt("INGEST_HISTORY_YEARS", 10),
			IndexTicker:  getEnvOrDefault("INGEST_INDEX_TICKER", "VNINDEX"),
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
