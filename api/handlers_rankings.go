package api

import (
	"net/http"
	"time"

	"vnstock-delta-scan/database/bars"
	"vnstock-delta-scan/helpers"
)

// handleVolumeRanking returns the top tickers by summed trading volume
// over the last N months (approximated as 30-day blocks, matching the
// results page).
func (s *Server) handleVolumeRanking(w http.ResponseWriter, r *http.Request) {
	months := getIntParam(r, "months", 3, intPtr(1), nil)
	limit := getIntParam(r, "limit", 10, intPtr(1), intPtr(100))

	end := time.Now()
	start := end.AddDate(0, 0, -months*30)

	rankings, err := s.barsRepo.TopByVolume(start, end, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "volume ranking failed", err)
		return
	}

	respondJSON(w, map[string]interface{}{
		"months":   months,
		"from":     start.Format("2006-01-02"),
		"to":       end.Format("2006-01-02"),
		"rankings": rankings,
	})
}

// handleValueRanking returns the top tickers by summed close×volume over
// the last N months, with volume-weighted average price.
func (s *Server) handleValueRanking(w http.ResponseWriter, r *http.Request) {
	months := getIntParam(r, "months", 3, intPtr(1), nil)
	limit := getIntParam(r, "limit", 10, intPtr(1), intPtr(100))

	end := time.Now()
	start := end.AddDate(0, 0, -months*30)

	rankings, err := s.barsRepo.TopByValue(start, end, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "value ranking failed", err)
		return
	}

	respondJSON(w, map[string]interface{}{
		"months":   months,
		"from":     start.Format("2006-01-02"),
		"to":       end.Format("2006-01-02"),
		"rankings": formatValueRankings(rankings),
	})
}

// valueRankingView adds the display form of the volume-weighted average
// price (stored prices are whole Dong after the ×1000 scaling).
type valueRankingView struct {
	bars.ValueRanking
	AvgPriceDisplay string `json:"avg_price_display"`
}

func formatValueRankings(rankings []bars.ValueRanking) []valueRankingView {
	views := make([]valueRankingView, len(rankings))
	for i, r := range rankings {
		views[i] = valueRankingView{
			ValueRanking:    r,
			AvgPriceDisplay: helpers.FormatVND(r.AvgPrice),
		}
	}
	return views
}
