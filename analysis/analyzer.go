// Package analysis implements the delta-pattern analysis core: given a
// signal move of N% over V trading days, what happened over the following
// R trading days across a ticker's stored history?
//
// The pipeline is Scanner → Filter/Classifier → Aggregator → Predictor for
// a single ticker, and Scanner → ClassifyAll → per-ticker stats → rankings
// for the multi-ticker screener. All of it is pure array indexing over the
// ordered bar slice; nothing here touches SQL or holds state between
// queries.
package analysis

import (
	"fmt"
	"time"
)

// Analyzer exposes the analysis pipeline over a bar source.
type Analyzer struct {
	source        BarSource
	workers       int
	tickerTimeout time.Duration
}

// NewAnalyzer creates an analyzer. workers bounds screener parallelism
// (8 when non-positive); tickerTimeout, when positive, caps each
// screener ticker's analysis.
func NewAnalyzer(source BarSource, workers int, tickerTimeout time.Duration) *Analyzer {
	return &Analyzer{
		source:        source,
		workers:       workers,
		tickerTimeout: tickerTimeout,
	}
}

func validateWindowParams(validationDays, resultDays int) error {
	if validationDays < 1 {
		return fmt.Errorf("validation days must be >= 1, got %d", validationDays)
	}
	if resultDays < 1 {
		return fmt.Errorf("result days must be >= 1, got %d", resultDays)
	}
	return nil
}

// Analyze runs the single-ticker pipeline: scan the full history, keep
// eligible records whose signal delta falls inside the target window, and
// aggregate the outcomes. Empty results are valid when nothing matches.
func (a *Analyzer) Analyze(ticker string, validationDays, resultDays int, deltaTarget float64, window TargetWindow) ([]ClassifiedEvent, Report, error) {
	if err := validateWindowParams(validationDays, resultDays); err != nil {
		return nil, nil, err
	}

	bars, err := a.source.GetOrderedBars(ticker)
	if err != nil {
		return nil, nil, fmt.Errorf("load bars for %s: %w", ticker, err)
	}

	records, err := ScanBars(ticker, bars, validationDays, resultDays)
	if err != nil {
		return nil, nil, err
	}

	low, high := window.Bounds(deltaTarget)
	events := FilterAndClassify(records, low, high)
	return events, Aggregate(events), nil
}

// PredictLatest fetches the most recent validationDays+1 bars and runs the
// predictor against the supplied aggregate report.
func (a *Analyzer) PredictLatest(ticker string, validationDays int, deltaTarget float64, window TargetWindow, report Report) (Prediction, error) {
	if validationDays < 1 {
		return Prediction{}, fmt.Errorf("validation days must be >= 1, got %d", validationDays)
	}

	latest, err := a.source.GetLatestBars(ticker, validationDays+1)
	if err != nil {
		return Prediction{}, fmt.Errorf("load latest bars for %s: %w", ticker, err)
	}

	low, high := window.Bounds(deltaTarget)
	return Predict(ticker, latest, validationDays, low, high, report)
}
