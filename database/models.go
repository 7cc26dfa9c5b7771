package database

import "time"

// PriceBar represents one daily OHLCV record for one ticker.
//
// Key Fields:
//   - Ticker: uppercase instrument code (≤3 chars for single stocks, or
//     the literal index symbol, e.g. VNINDEX)
//   - Date: the trading date; (Ticker, Date) is the composite primary key,
//     so no two bars can exist for the same ticker on the same day
//   - Open/High/Low/Close: prices stored as integers scaled ×1000 to keep
//     floating point out of storage
//   - Volume: shares traded
//
// Bars are written only by ingestion (truncate-then-bulk-load with
// ON CONFLICT DO NOTHING) and are read-only during analysis.
type PriceBar struct {
	Ticker string    `gorm:"size:10;not null;primaryKey" json:"ticker"`
	Date   time.Time `gorm:"type:date;not null;primaryKey" json:"date"`
	Open   int64     `gorm:"not null" json:"open"`
	High   int64     `gorm:"not null" json:"high"`
	Low    int64     `gorm:"not null" json:"low"`
	Close  int64     `gorm:"not null" json:"close"`
	Volume int64     `gorm:"not null" json:"volume"`
}

// TableName specifies the table name for PriceBar
func (PriceBar) TableName() string {
	return "trading_data"
}

// InitSchema creates the trading_data table if it does not exist yet.
// The (ticker, date DESC) covering index is rebuilt by ingestion after
// bulk loads, not here.
func (d *Database) InitSchema() error {
	return d.db.AutoMigrate(&PriceBar{})
}
