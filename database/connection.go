// Package database provides database connection management for the
// vnstock-delta-scan analysis service.
//
// This package includes:
//   - Database connection management using GORM and PostgreSQL
//   - Connect-with-backoff for containerized startup ordering
//   - Typed error wrappers shared by the repositories
//
// Data Models:
//
//	The PriceBar model (one OHLCV row per ticker per trading date) is
//	defined in models.go; per-area repositories live in subpackages.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database holds the GORM database connection and provides access to the
// underlying DB instance. It is the central connection point for all
// database operations in the application.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host, port, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// ConnectWithRetry keeps attempting Connect until it succeeds or the retry
// budget is spent. The database container is often still warming up when
// the app starts, so a flat delay between attempts is enough.
func ConnectWithRetry(host, port, dbname, user, password string, retries int, delay time.Duration) (*Database, error) {
	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		db, err := Connect(host, port, dbname, user, password)
		if err == nil {
			return db, nil
		}
		lastErr = err
		log.Printf("⚠️  Failed to connect to database (attempt %d/%d): %v", attempt, retries, err)
		if attempt < retries {
			time.Sleep(delay)
		}
	}
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", retries, lastErr)
}

// SQLDB exposes the underlying *sql.DB for code that needs driver-level
// features (the bulk loader uses pq.CopyIn).
func (d *Database) SQLDB() (*sql.DB, error) {
	return d.db.DB()
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
