package ingest

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/lib/pq"
)

// priceScale converts vendor prices (thousands of VND with decimals) to
// the integer form stored in trading_data.
const priceScale = 1000

// maxStockTickerLen: single stocks on the exchange use codes of at most
// three characters; longer codes in the stock file are funds, warrants
// and other derivatives the analysis does not cover.
const maxStockTickerLen = 3

// Row is one parsed CSV record in storage form.
type Row struct {
	Ticker string
	Date   time.Time
	Open   int64
	High   int64
	Low    int64
	Close  int64
	Volume int64
}

// parseRow converts one vendor CSV record
// (Ticker,DTYYYYMMDD,Open,High,Low,Close,Volume) to storage form.
func parseRow(fields []string) (Row, error) {
	if len(fields) < 7 {
		return Row{}, fmt.Errorf("expected 7 fields, got %d", len(fields))
	}

	date, err := time.Parse("20060102", fields[1])
	if err != nil {
		return Row{}, fmt.Errorf("bad date %q: %w", fields[1], err)
	}

	prices := make([]int64, 4)
	for i, f := range fields[2:6] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Row{}, fmt.Errorf("bad price %q: %w", f, err)
		}
		prices[i] = int64(math.Round(v * priceScale))
	}

	volume, err := strconv.ParseFloat(fields[6], 64)
	if err != nil {
		return Row{}, fmt.Errorf("bad volume %q: %w", fields[6], err)
	}

	return Row{
		Ticker: fields[0],
		Date:   date,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: int64(volume),
	}, nil
}

// keepRow applies the cutoff-date and ticker filters. An empty
// tickerFilter means the stock file rule (codes of ≤3 characters);
// otherwise only the named ticker survives (the index file).
func keepRow(row Row, cutoff time.Time, tickerFilter string) bool {
	if row.Date.Before(cutoff) {
		return false
	}
	if tickerFilter != "" {
		return row.Ticker == tickerFilter
	}
	return len(row.Ticker) <= maxStockTickerLen
}

// Loader bulk-loads parsed CSV rows into trading_data.
type Loader struct {
	db *sql.DB
}

// NewLoader creates a loader over the raw SQL connection.
func NewLoader(db *sql.DB) *Loader {
	return &Loader{db: db}
}

// LoadCSV streams one CSV file through a temp table into trading_data.
// Rows are COPYed into the temp table and then inserted with
// ON CONFLICT (ticker, date) DO NOTHING, so a bar already present is
// never overwritten and re-running a load is idempotent.
// Returns (raw rows read, rows surviving the filters).
func (l *Loader) LoadCSV(path string, cutoff time.Time, tickerFilter string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	txn, err := l.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("begin load transaction: %w", err)
	}
	defer txn.Rollback()

	if _, err := txn.Exec(`
		CREATE TEMPORARY TABLE temp_chunk (
			ticker TEXT,
			date DATE,
			open BIGINT,
			high BIGINT,
			low BIGINT,
			close BIGINT,
			volume BIGINT
		) ON COMMIT DROP
	`); err != nil {
		return 0, 0, fmt.Errorf("create temp table: %w", err)
	}

	stmt, err := txn.Prepare(pq.CopyIn("temp_chunk", "ticker", "date", "open", "high", "low", "close", "volume"))
	if err != nil {
		return 0, 0, fmt.Errorf("prepare copy: %w", err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	total, kept := 0, 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			stmt.Close()
			return total, kept, fmt.Errorf("read %s: %w", path, err)
		}

		row, err := parseRow(fields)
		if err != nil {
			// The first record is a header line; anything else malformed
			// is logged and skipped rather than aborting the file.
			if total > 0 {
				log.Printf("⚠️  Skipping malformed row in %s: %v", path, err)
			}
			total++
			continue
		}
		total++

		if !keepRow(row, cutoff, tickerFilter) {
			continue
		}
		kept++

		if _, err := stmt.Exec(row.Ticker, row.Date, row.Open, row.High, row.Low, row.Close, row.Volume); err != nil {
			stmt.Close()
			return total, kept, fmt.Errorf("copy row: %w", err)
		}
	}

	// Flush the COPY buffer
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		return total, kept, fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return total, kept, fmt.Errorf("close copy: %w", err)
	}

	if _, err := txn.Exec(`
		INSERT INTO trading_data (ticker, date, open, high, low, close, volume)
		SELECT DISTINCT ticker, date, open, high, low, close, volume
		FROM temp_chunk
		ON CONFLICT (ticker, date) DO NOTHING
	`); err != nil {
		return total, kept, fmt.Errorf("merge temp table: %w", err)
	}

	if err := txn.Commit(); err != nil {
		return total, kept, fmt.Errorf("commit load: %w", err)
	}
	return total, kept, nil
}
