// Package ingest implements the daily-archive ingestion pipeline:
// download the vendor zips, filter and scale the CSV rows, and bulk-load
// them into trading_data. Ingestion truncates first and runs with
// exclusive access to the table; it is never interleaved with analysis
// queries over the same dataset.
package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"vnstock-delta-scan/config"
	"vnstock-delta-scan/database/bars"
)

// Service orchestrates a full ingestion run.
type Service struct {
	repo       *bars.Repository
	loader     *Loader
	downloader *Downloader
	cfg        config.IngestConfig
}

// NewService creates an ingestion service.
func NewService(repo *bars.Repository, loader *Loader, downloader *Downloader, cfg config.IngestConfig) *Service {
	return &Service{
		repo:       repo,
		loader:     loader,
		downloader: downloader,
		cfg:        cfg,
	}
}

// Summary reports what an ingestion run did.
type Summary struct {
	ReportDate time.Time `json:"report_date"`
	Cutoff     time.Time `json:"cutoff"`
	RowsRead   int       `json:"rows_read"`
	RowsKept   int       `json:"rows_kept"`
	TotalBars  int64     `json:"total_bars"`
}

// Run executes a fresh ingestion: truncate, load the stock archive, load
// the index archive, rebuild the (ticker, date DESC) index. years bounds
// the history kept; bars older than the cutoff are dropped at parse time.
func (s *Service) Run(ctx context.Context, reportDate time.Time, years int) (*Summary, error) {
	if years < 1 {
		years = s.cfg.HistoryYears
	}

	reportDate = LastTradingDay(reportDate)
	cutoff := reportDate.AddDate(-years, 0, 0)

	log.Printf("🗄️  Starting ingestion for report date %s (cutoff %s)",
		reportDate.Format("2006-01-02"), cutoff.Format("2006-01-02"))

	if err := s.repo.Truncate(); err != nil {
		return nil, err
	}

	summary := &Summary{ReportDate: reportDate, Cutoff: cutoff}

	loads := []struct {
		kind   ArchiveKind
		filter string
	}{
		{ArchiveStocks, ""},
		{ArchiveIndex, s.cfg.IndexTicker},
	}

	for _, load := range loads {
		if err := s.runLoad(ctx, load.kind, load.filter, reportDate, cutoff, summary); err != nil {
			return nil, err
		}
	}

	if err := s.repo.RebuildIndex(); err != nil {
		return nil, err
	}

	total, err := s.repo.Count()
	if err != nil {
		return nil, err
	}
	summary.TotalBars = total

	log.Printf("✅ Ingestion complete: %d/%d rows kept, %d bars stored",
		summary.RowsKept, summary.RowsRead, summary.TotalBars)
	return summary, nil
}

func (s *Service) runLoad(ctx context.Context, kind ArchiveKind, tickerFilter string, reportDate, cutoff time.Time, summary *Summary) error {
	tempDir, err := os.MkdirTemp("", "vnstock-ingest-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tempDir)

	log.Printf("📥 Downloading %s archive...", kind)
	csvPaths, err := s.downloader.FetchArchive(ctx, kind, reportDate, tempDir)
	if err != nil {
		return fmt.Errorf("fetch %s archive: %w", kind, err)
	}

	for _, path := range csvPaths {
		total, kept, err := s.loader.LoadCSV(path, cutoff, tickerFilter)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		summary.RowsRead += total
		summary.RowsKept += kept
		log.Printf("📊 Loaded %s: %d rows read, %d kept", path, total, kept)
	}
	return nil
}
