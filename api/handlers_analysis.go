package api

import (
	"fmt"
	"net/http"
	"strings"

	"vnstock-delta-scan/analysis"
)

// handleAnalysis runs the single-ticker pipeline: classified events,
// aggregate report, and the latest-window prediction.
//
// Query parameters: ticker (required), validation_days, result_days,
// delta_target, window_low / window_high (target-window offsets,
// defaulting to the configured ±1).
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ticker")))
	if ticker == "" {
		respondWithError(w, http.StatusBadRequest, "ticker is required", nil)
		return
	}

	validationDays := getIntParam(r, "validation_days", 3, intPtr(1), nil)
	resultDays := getIntParam(r, "result_days", 7, intPtr(1), nil)
	deltaTarget := getFloatParam(r, "delta_target", -3.0)

	window := analysis.TargetWindow{
		LowOffset:  getFloatParam(r, "window_low", s.cfg.Analysis.WindowLowOffset),
		HighOffset: getFloatParam(r, "window_high", s.cfg.Analysis.WindowHighOffset),
	}

	events, report, err := s.analyzer.Analyze(ticker, validationDays, resultDays, deltaTarget, window)
	if err != nil {
		if analysis.IsDataQuality(err) {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error(), err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "analysis failed", err)
		return
	}

	prediction, err := s.analyzer.PredictLatest(ticker, validationDays, deltaTarget, window, report)
	if err != nil {
		if analysis.IsDataQuality(err) {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error(), err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "prediction failed", err)
		return
	}

	respondJSON(w, map[string]interface{}{
		"ticker":          ticker,
		"validation_days": validationDays,
		"result_days":     resultDays,
		"delta_target":    deltaTarget,
		"window":          window,
		"events":          events,
		"report":          report,
		"prediction":      prediction,
		"advice":          adviceText(prediction, validationDays, resultDays),
	})
}

// adviceText renders the user-facing narrative for a prediction. This is
// presentation only; the structured Prediction is the contract.
func adviceText(p analysis.Prediction, validationDays, resultDays int) string {
	switch p.Status {
	case analysis.PredictionInsufficientData:
		return "Not enough data to calculate the latest block day delta."
	case analysis.PredictionOutOfRange:
		return fmt.Sprintf(
			"Latest %d-day delta is %.2f%%, which is outside the target range (%.2f%% to %.2f%%). No prediction can be made.",
			validationDays, p.LatestDelta, p.WindowLow, p.WindowHigh)
	default:
		if p.PredictedClass == analysis.PredictionUncertain {
			return fmt.Sprintf(
				"After a %d-day delta of %.2f%%, historical outcomes are equally likely in multiple directions: Uncertain.",
				validationDays, p.LatestDelta)
		}
		return fmt.Sprintf(
			"Based on historical data, after a %d-day delta of %.2f%%, the stock is more likely to go %s in the next %d days.",
			validationDays, p.LatestDelta, p.PredictedClass, resultDays)
	}
}
