package analysis

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
)

const (
	defaultScreenerWorkers = 8
	rankingSize            = 5
)

// Screen runs the unconditional (no target-window) pipeline across every
// ticker in the universe and ranks the per-ticker base rates. Tickers are
// independent and read-only against the store, so they are fanned out over
// a bounded worker pool; a ticker that fails or times out is excluded from
// the rankings while the rest of the batch continues.
func (a *Analyzer) Screen(ctx context.Context, minAvgVolume int64, validationDays, resultDays int) (*ScreenerResult, error) {
	if err := validateWindowParams(validationDays, resultDays); err != nil {
		return nil, err
	}

	tickers, err := a.source.GetTickerUniverse(minAvgVolume)
	if err != nil {
		return nil, fmt.Errorf("load ticker universe: %w", err)
	}

	// Index-addressed results keep ranking ties in stable first-seen
	// order regardless of worker completion order.
	results := make([]*TickerStats, len(tickers))

	type job struct {
		idx    int
		ticker string
	}
	jobs := make(chan job)

	workers := a.workers
	if workers <= 0 {
		workers = defaultScreenerWorkers
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				stats, err := a.screenTicker(ctx, j.ticker, validationDays, resultDays)
				if err != nil {
					log.Printf("⚠️  Screener: excluding %s: %v", j.ticker, err)
					continue
				}
				results[j.idx] = stats
			}
		}()
	}

feed:
	for i, ticker := range tickers {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{idx: i, ticker: ticker}:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analyzed := make([]TickerStats, 0, len(results))
	for _, s := range results {
		if s != nil {
			analyzed = append(analyzed, *s)
		}
	}

	return &ScreenerResult{
		TickersAnalyzed:    len(analyzed),
		TickersExcluded:    len(tickers) - len(analyzed),
		TopUpProbability:   rankBy(analyzed, func(a, b TickerStats) bool { return a.PossibilityUp > b.PossibilityUp }),
		TopUpDelta:         rankBy(analyzed, func(a, b TickerStats) bool { return derefOrWorst(a.MaxUpDelta) > derefOrWorst(b.MaxUpDelta) }),
		TopDownProbability: rankBy(analyzed, func(a, b TickerStats) bool { return a.PossibilityDown > b.PossibilityDown }),
		TopDownDelta:       rankBy(analyzed, func(a, b TickerStats) bool { return derefOrBest(a.MinDownDelta) < derefOrBest(b.MinDownDelta) }),
	}, nil
}

// screenTicker analyzes one ticker, bounded by the per-ticker timeout.
// The analysis runs in its own goroutine so a stalled store query only
// costs the abandoned goroutine, not the whole screen.
func (a *Analyzer) screenTicker(ctx context.Context, ticker string, validationDays, resultDays int) (*TickerStats, error) {
	if a.tickerTimeout <= 0 {
		return a.tickerBaseRate(ticker, validationDays, resultDays)
	}

	tctx, cancel := context.WithTimeout(ctx, a.tickerTimeout)
	defer cancel()

	type outcome struct {
		stats *TickerStats
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		stats, err := a.tickerBaseRate(ticker, validationDays, resultDays)
		done <- outcome{stats: stats, err: err}
	}()

	select {
	case <-tctx.Done():
		return nil, tctx.Err()
	case res := <-done:
		return res.stats, res.err
	}
}

// tickerBaseRate computes the unconditional up/down statistics for one
// ticker: every eligible record classified, no target-window filter.
func (a *Analyzer) tickerBaseRate(ticker string, validationDays, resultDays int) (*TickerStats, error) {
	bars, err := a.source.GetOrderedBars(ticker)
	if err != nil {
		return nil, err
	}

	records, err := ScanBars(ticker, bars, validationDays, resultDays)
	if err != nil {
		return nil, err
	}

	events := ClassifyAll(records)

	stats := &TickerStats{Ticker: ticker, TotalSignals: len(events)}
	if len(events) == 0 {
		return stats, nil
	}

	var upDeltas, downDeltas []float64
	for _, ev := range events {
		switch ev.Result {
		case OutcomeUp:
			upDeltas = append(upDeltas, ev.ResultDelta)
		case OutcomeDown:
			downDeltas = append(downDeltas, ev.ResultDelta)
		}
	}

	total := float64(len(events))
	stats.PossibilityUp = round2(float64(len(upDeltas)) / total * 100)
	stats.PossibilityDown = round2(float64(len(downDeltas)) / total * 100)
	stats.MinUpDelta, stats.MedianUpDelta, stats.MaxUpDelta = magnitudeStats(upDeltas)
	stats.MinDownDelta, stats.MedianDownDelta, stats.MaxDownDelta = magnitudeStats(downDeltas)

	return stats, nil
}

// magnitudeStats returns min/median/max of deltas, or nils when the class
// never occurred.
func magnitudeStats(deltas []float64) (min, med, max *float64) {
	if len(deltas) == 0 {
		return nil, nil, nil
	}
	lo, hi := deltas[0], deltas[0]
	for _, d := range deltas[1:] {
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	m := round2(median(deltas))
	return &lo, &m, &hi
}

// rankBy returns the top rankingSize entries under less, keeping stable
// first-seen order for ties.
func rankBy(stats []TickerStats, less func(a, b TickerStats) bool) []TickerStats {
	ranked := make([]TickerStats, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if len(ranked) > rankingSize {
		ranked = ranked[:rankingSize]
	}
	return ranked
}

// derefOrWorst treats a missing up-magnitude as negative infinity so
// tickers that never went up rank last.
func derefOrWorst(v *float64) float64 {
	if v == nil {
		return -1e308
	}
	return *v
}

// derefOrBest treats a missing down-magnitude as positive infinity so
// tickers that never went down rank last.
func derefOrBest(v *float64) float64 {
	if v == nil {
		return 1e308
	}
	return *v
}
