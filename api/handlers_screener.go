package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"vnstock-delta-scan/analysis"
	"vnstock-delta-scan/cache"
)

// Screener runs scan every liquid ticker's full history, so results are
// cached per parameter set.
const screenerCachePrefix = "screener:"

// handleScreener runs the multi-ticker screener: unconditional up/down
// base rates for every ticker above the volume threshold, ranked four
// ways.
//
// Query parameters: validation_days, result_days, min_avg_volume (shares).
func (s *Server) handleScreener(w http.ResponseWriter, r *http.Request) {
	validationDays := getIntParam(r, "validation_days", 5, intPtr(1), nil)
	resultDays := getIntParam(r, "result_days", 7, intPtr(1), nil)
	minAvgVolume := int64(getIntParam(r, "min_avg_volume", 100000, intPtr(0), nil))

	cacheKey := fmt.Sprintf("%sv%d:r%d:vol%d", screenerCachePrefix, validationDays, resultDays, minAvgVolume)

	if s.redis != nil {
		var cached analysis.ScreenerResult
		err := s.redis.Get(r.Context(), cacheKey, &cached)
		if err == nil {
			s.respondScreener(w, validationDays, resultDays, minAvgVolume, &cached, true)
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("⚠️  Screener cache read failed: %v", err)
		}
	}

	result, err := s.analyzer.Screen(r.Context(), minAvgVolume, validationDays, resultDays)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "screener failed", err)
		return
	}

	if s.redis != nil {
		ttl := time.Duration(s.cfg.Analysis.ScreenerCacheTTLMins) * time.Minute
		if err := s.redis.Set(r.Context(), cacheKey, result, ttl); err != nil {
			log.Printf("⚠️  Screener cache write failed: %v", err)
		}
	}

	s.respondScreener(w, validationDays, resultDays, minAvgVolume, result, false)
}

func (s *Server) respondScreener(w http.ResponseWriter, validationDays, resultDays int, minAvgVolume int64, result *analysis.ScreenerResult, cached bool) {
	respondJSON(w, map[string]interface{}{
		"validation_days": validationDays,
		"result_days":     resultDays,
		"min_avg_volume":  minAvgVolume,
		"cached":          cached,
		"result":          result,
	})
}
