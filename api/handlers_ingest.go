package api

import (
	"log"
	"net/http"
	"time"

	"vnstock-delta-scan/ingest"
)

// handleIngest triggers a fresh ingestion run: truncate, download the
// daily archives, bulk-load. Analysis caches are invalidated afterwards
// since every derived result is a function of the stored bars.
//
// Query parameters: date (YYYY-MM-DD, defaults to the newest archive
// expected to exist), years (history cutoff).
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.ingestor == nil {
		respondWithError(w, http.StatusServiceUnavailable, "ingestion not configured", nil)
		return
	}

	reportDate := ingest.DefaultReportDate(ingest.NowExchange())
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
			return
		}
		reportDate = parsed
	}

	years := getIntParam(r, "years", s.cfg.Ingest.HistoryYears, intPtr(1), nil)

	summary, err := s.ingestor.Run(r.Context(), reportDate, years)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "ingestion failed", err)
		return
	}

	// Derived results are functions of the stored bars; drop stale caches
	if s.redis != nil {
		if err := s.redis.DeleteByPattern(r.Context(), screenerCachePrefix+"*"); err != nil {
			log.Printf("⚠️  Failed to invalidate screener cache: %v", err)
		}
	}

	respondJSON(w, map[string]interface{}{
		"status":  "ok",
		"summary": summary,
	})
}
