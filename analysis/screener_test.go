package analysis

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeSource is an in-memory BarSource for pipeline tests.
type fakeSource struct {
	universe []string
	bars     map[string][]Bar
	errs     map[string]error
}

func (f *fakeSource) GetOrderedBars(ticker string) ([]Bar, error) {
	if err := f.errs[ticker]; err != nil {
		return nil, err
	}
	return f.bars[ticker], nil
}

func (f *fakeSource) GetLatestBars(ticker string, count int) ([]Bar, error) {
	if err := f.errs[ticker]; err != nil {
		return nil, err
	}
	ordered := f.bars[ticker]
	latest := make([]Bar, 0, count)
	for i := len(ordered) - 1; i >= 0 && len(latest) < count; i-- {
		latest = append(latest, ordered[i])
	}
	return latest, nil
}

func (f *fakeSource) GetTickerUniverse(minAvgVolume int64) ([]string, error) {
	return f.universe, nil
}

func screenerFixture() *fakeSource {
	return &fakeSource{
		universe: []string{"AAA", "AAB", "BBB", "CCC", "ERR"},
		bars: map[string][]Bar{
			// Always up
			"AAA": barSeries(100000, 101000, 102000, 103000, 104000),
			// Identical to AAA: ties must keep first-seen order
			"AAB": barSeries(100000, 101000, 102000, 103000, 104000),
			// Always down
			"BBB": barSeries(104000, 103000, 102000, 101000, 100000),
			// Mixed: 1 up, 2 down across the 3 eligible days
			"CCC": barSeries(100000, 101000, 100000, 101000, 100000),
			// Data fault: must be excluded without aborting the batch
			"ERR": nil,
		},
		errs: map[string]error{
			"ERR": errors.New("connection reset"),
		},
	}
}

func TestScreenRankings(t *testing.T) {
	analyzer := NewAnalyzer(screenerFixture(), 4, time.Second)

	result, err := analyzer.Screen(context.Background(), 0, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TickersAnalyzed != 4 {
		t.Errorf("expected 4 analyzed tickers, got %d", result.TickersAnalyzed)
	}
	if result.TickersExcluded != 1 {
		t.Errorf("expected 1 excluded ticker, got %d", result.TickersExcluded)
	}

	if len(result.TopUpProbability) != 4 {
		t.Fatalf("expected 4 ranked tickers, got %d", len(result.TopUpProbability))
	}

	// AAA and AAB tie at 100% up; stable input order breaks the tie
	gotOrder := []string{
		result.TopUpProbability[0].Ticker,
		result.TopUpProbability[1].Ticker,
	}
	if gotOrder[0] != "AAA" || gotOrder[1] != "AAB" {
		t.Errorf("expected tie order [AAA AAB], got %v", gotOrder)
	}

	top := result.TopUpProbability[0]
	if top.PossibilityUp != 100.00 {
		t.Errorf("expected 100%% up probability, got %v", top.PossibilityUp)
	}
	// AAA's forward deltas are 0.99, 0.98, 0.97
	if top.MaxUpDelta == nil || *top.MaxUpDelta != 0.99 {
		t.Errorf("expected max up delta 0.99, got %v", top.MaxUpDelta)
	}

	// Most frequently down ranks first
	if got := result.TopDownProbability[0].Ticker; got != "BBB" {
		t.Errorf("expected BBB to lead down-probability, got %s", got)
	}
	if p := result.TopDownProbability[0].PossibilityDown; p != 100.00 {
		t.Errorf("expected 100%% down probability, got %v", p)
	}

	// Largest decline first; BBB and CCC tie at -0.99, BBB was seen first
	if got := result.TopDownDelta[0].Ticker; got != "BBB" {
		t.Errorf("expected BBB to lead down-delta, got %s", got)
	}

	// CCC's unconditional base rate: 1 of 3 up, 2 of 3 down
	var ccc *TickerStats
	for i := range result.TopUpProbability {
		if result.TopUpProbability[i].Ticker == "CCC" {
			ccc = &result.TopUpProbability[i]
		}
	}
	if ccc == nil {
		t.Fatal("CCC missing from rankings")
	}
	if ccc.TotalSignals != 3 {
		t.Errorf("expected 3 signals for CCC, got %d", ccc.TotalSignals)
	}
	if ccc.PossibilityUp != 33.33 || ccc.PossibilityDown != 66.67 {
		t.Errorf("expected CCC 33.33/66.67, got %v/%v", ccc.PossibilityUp, ccc.PossibilityDown)
	}
}

func TestScreenNeverUpTickerRanksLast(t *testing.T) {
	analyzer := NewAnalyzer(screenerFixture(), 2, 0)

	result, err := analyzer.Screen(context.Background(), 0, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// BBB never went up, so its up-magnitude stats are absent and it must
	// trail every ticker that did go up
	last := result.TopUpDelta[len(result.TopUpDelta)-1]
	if last.Ticker != "BBB" {
		t.Errorf("expected BBB last in up-delta ranking, got %s", last.Ticker)
	}
	if last.MaxUpDelta != nil {
		t.Errorf("expected nil max up delta for BBB, got %v", *last.MaxUpDelta)
	}
}

func TestScreenEmptyUniverse(t *testing.T) {
	analyzer := NewAnalyzer(&fakeSource{}, 2, 0)

	result, err := analyzer.Screen(context.Background(), 0, 5, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TickersAnalyzed != 0 || result.TickersExcluded != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if len(result.TopUpProbability) != 0 {
		t.Errorf("expected no rankings, got %d", len(result.TopUpProbability))
	}
}

func TestScreenCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := NewAnalyzer(screenerFixture(), 2, 0)
	if _, err := analyzer.Screen(ctx, 0, 1, 1); err == nil {
		t.Error("expected context error")
	}
}

func TestScreenInvalidParams(t *testing.T) {
	analyzer := NewAnalyzer(&fakeSource{}, 2, 0)

	if _, err := analyzer.Screen(context.Background(), 0, 0, 7); err == nil {
		t.Error("expected error for validation days < 1")
	}
	if _, err := analyzer.Screen(context.Background(), 0, 5, 0); err == nil {
		t.Error("expected error for result days < 1")
	}
}
