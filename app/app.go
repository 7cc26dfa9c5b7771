// Package app wires the service together: configuration, database with
// connect retry, optional Redis cache, the analysis core, the ingestion
// pipeline, and the HTTP API, with signal-driven graceful shutdown.
package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vnstock-delta-scan/analysis"
	"vnstock-delta-scan/api"
	"vnstock-delta-scan/cache"
	"vnstock-delta-scan/config"
	"vnstock-delta-scan/database"
	"vnstock-delta-scan/database/bars"
	"vnstock-delta-scan/ingest"
)

// App represents the main application
type App struct {
	config   *config.Config
	db       *database.Database
	redis    *cache.RedisClient
	barsRepo *bars.Repository
	analyzer *analysis.Analyzer
	ingestor *ingest.Service
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{
		config: cfg,
	}
}

// Start starts the application
func (a *App) Start() error {
	// 1. Database Connection
	fmt.Println("🗄️  Connecting to database...")
	db, err := database.ConnectWithRetry(
		a.config.DatabaseHost,
		a.config.DatabasePort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
		a.config.DatabaseConnectRetries,
		time.Duration(a.config.DatabaseConnectDelaySecs)*time.Second,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db
	log.Println("✅ Database connection established")

	// Initialize schema
	if err := a.db.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	// 2. Redis Connection
	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Caching disabled.")
	} else {
		a.redis = redisClient
	}

	// 3. Repositories and analysis core
	a.barsRepo = bars.NewRepository(a.db, a.config.Ingest.IndexTicker)
	a.analyzer = analysis.NewAnalyzer(
		a.barsRepo,
		a.config.Analysis.ScreenerWorkers,
		time.Duration(a.config.Analysis.ScreenerTickerTimeout)*time.Second,
	)

	// 4. Ingestion pipeline
	sqlDB, err := a.db.SQLDB()
	if err != nil {
		return fmt.Errorf("raw connection unavailable: %w", err)
	}
	a.ingestor = ingest.NewService(
		a.barsRepo,
		ingest.NewLoader(sqlDB),
		ingest.NewDownloader(a.config.Ingest.BaseURL),
		a.config.Ingest,
	)

	// 5. Start API Server
	apiServer := api.NewServer(a.analyzer, a.barsRepo, a.redis, a.config)
	apiServer.SetIngestor(a.ingestor)

	go func() {
		if err := apiServer.Start(a.config.ServerPort); err != nil {
			log.Printf("⚠️  API Server failed: %v", err)
		}
	}()

	// 6. Wait for interrupt and perform graceful shutdown
	return a.gracefulShutdown()
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown() error {
	// Setup signal handling
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// Wait for interrupt signal
	<-interrupt
	fmt.Println("\n🛑 Shutdown signal received, initiating graceful shutdown...")

	shutdownComplete := make(chan struct{})
	go func() {
		// Close database connection
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			} else {
				fmt.Println("✅ Database connection closed")
			}
		}

		// Close Redis connection
		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				log.Printf("Error closing redis: %v", err)
			} else {
				fmt.Println("✅ Redis connection closed")
			}
		}

		close(shutdownComplete)
	}()

	// Wait for shutdown to complete or timeout
	select {
	case <-shutdownComplete:
		fmt.Println("✅ Graceful shutdown completed")
		return nil
	case <-time.After(10 * time.Second):
		fmt.Println("⚠️  Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}
