// Package bars is the read/write repository over the trading_data table.
// It implements analysis.BarSource and the ranking aggregations used by
// the results endpoints.
package bars

import (
	"time"

	"vnstock-delta-scan/analysis"
	"vnstock-delta-scan/database"

	"gorm.io/gorm"
)

// Repository handles database operations for daily price bars
type Repository struct {
	db          *gorm.DB
	indexTicker string // broad-market index symbol, excluded from stock queries
}

// NewRepository creates a new bars repository
func NewRepository(db *database.Database, indexTicker string) *Repository {
	return &Repository{db: db.DB(), indexTicker: indexTicker}
}

// GetOrderedBars returns every bar for a ticker ordered by date ascending,
// one row per trading day on record.
func (r *Repository) GetOrderedBars(ticker string) ([]analysis.Bar, error) {
	var bars []analysis.Bar
	err := r.db.Raw(`
		SELECT date, close
		FROM trading_data
		WHERE ticker = ?
		ORDER BY date ASC
	`, ticker).Scan(&bars).Error
	if err != nil {
		return nil, database.WrapDBError("GetOrderedBars", err)
	}
	return bars, nil
}

// GetLatestBars returns at most count bars for a ticker, newest first.
func (r *Repository) GetLatestBars(ticker string, count int) ([]analysis.Bar, error) {
	var bars []analysis.Bar
	err := r.db.Raw(`
		SELECT date, close
		FROM trading_data
		WHERE ticker = ?
		ORDER BY date DESC
		LIMIT ?
	`, ticker, count).Scan(&bars).Error
	if err != nil {
		return nil, database.WrapDBError("GetLatestBars", err)
	}
	return bars, nil
}

// GetTickerUniverse returns tickers (excluding the index symbol) whose
// average volume across all stored history meets the threshold.
func (r *Repository) GetTickerUniverse(minAvgVolume int64) ([]string, error) {
	var tickers []string
	err := r.db.Raw(`
		SELECT ticker
		FROM trading_data
		WHERE ticker <> ?
		GROUP BY ticker
		HAVING AVG(volume) >= ?
		ORDER BY ticker
	`, r.indexTicker, minAvgVolume).Scan(&tickers).Error
	if err != nil {
		return nil, database.WrapDBError("GetTickerUniverse", err)
	}
	return tickers, nil
}

// VolumeRanking is one row of the top-traded-by-volume report
type VolumeRanking struct {
	Ticker      string `json:"ticker"`
	TotalVolume int64  `json:"total_volume"`
}

// ValueRanking is one row of the top-traded-by-value report. Prices are
// stored ×1000, so TotalValue carries the same scale.
type ValueRanking struct {
	Ticker      string  `json:"ticker"`
	TotalValue  int64   `json:"total_value"`
	TotalVolume int64   `json:"total_volume"`
	AvgPrice    float64 `json:"avg_price"`
}

// TopByVolume returns the most traded tickers by summed volume between
// start and end, busiest first.
func (r *Repository) TopByVolume(start, end time.Time, limit int) ([]VolumeRanking, error) {
	var rankings []VolumeRanking
	err := r.db.Raw(`
		SELECT ticker, SUM(volume) AS total_volume
		FROM trading_data
		WHERE date >= ? AND date <= ? AND ticker <> ?
		GROUP BY ticker
		ORDER BY total_volume DESC
		LIMIT ?
	`, start, end, r.indexTicker, limit).Scan(&rankings).Error
	if err != nil {
		return nil, database.WrapDBError("TopByVolume", err)
	}
	return rankings, nil
}

// TopByValue returns the most traded tickers by summed close×volume
// between start and end, with the volume-weighted average price.
func (r *Repository) TopByValue(start, end time.Time, limit int) ([]ValueRanking, error) {
	var rankings []ValueRanking
	err := r.db.Raw(`
		SELECT ticker,
		       SUM(CAST(close AS BIGINT) * CAST(volume AS BIGINT)) AS total_value,
		       SUM(volume) AS total_volume,
		       ROUND((SUM(CAST(close AS BIGINT) * CAST(volume AS BIGINT))::FLOAT / SUM(volume))::NUMERIC, 2) AS avg_price
		FROM trading_data
		WHERE date >= ? AND date <= ? AND ticker <> ?
		GROUP BY ticker
		ORDER BY total_value DESC
		LIMIT ?
	`, start, end, r.indexTicker, limit).Scan(&rankings).Error
	if err != nil {
		return nil, database.WrapDBError("TopByValue", err)
	}
	return rankings, nil
}

// Count returns the number of stored bars.
func (r *Repository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&database.PriceBar{}).Count(&count).Error; err != nil {
		return 0, database.WrapDBError("Count", err)
	}
	return count, nil
}

// Truncate wipes the table at the start of a fresh ingestion run.
func (r *Repository) Truncate() error {
	if err := r.db.Exec("TRUNCATE TABLE trading_data").Error; err != nil {
		return database.WrapDBError("Truncate", err)
	}
	return nil
}

// RebuildIndex recreates the (ticker, date DESC) covering index after a
// bulk load. Dropping first keeps the rebuild cheap on repeat ingestions.
func (r *Repository) RebuildIndex() error {
	if err := r.db.Exec("DROP INDEX IF EXISTS idx_ticker_date").Error; err != nil {
		return database.WrapDBError("RebuildIndex", err)
	}
	if err := r.db.Exec("CREATE INDEX idx_ticker_date ON trading_data (ticker, date DESC)").Error; err != nil {
		return database.WrapDBError("RebuildIndex", err)
	}
	return nil
}
