package analysis

import (
	"testing"
)

func TestAnalyzeEmptyTicker(t *testing.T) {
	analyzer := NewAnalyzer(&fakeSource{bars: map[string][]Bar{}}, 0, 0)

	events, report, err := analyzer.Analyze("XXX", 3, 7, -3.0, DefaultWindow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
	if len(report) != 0 {
		t.Errorf("expected empty report, got %d rows", len(report))
	}

	// Empty ticker: the predictor has no history at all
	prediction, err := analyzer.PredictLatest("XXX", 3, -3.0, DefaultWindow, report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prediction.Status != PredictionInsufficientData {
		t.Errorf("expected InsufficientData, got %s", prediction.Status)
	}
}

func TestAnalyzeSingleTickerPipeline(t *testing.T) {
	// 1-day signal of about -1% followed by 1-day outcomes; the last
	// window repeats the signal so the prediction applies.
	source := &fakeSource{bars: map[string][]Bar{
		"FPT": barSeries(
			100000, // 1
			99000,  // 2: signal -1.00, outcome +2.02
			101000, // 3
			100000, // 4: signal -0.99, outcome +1.00
			101000, // 5
			100000, // 6: signal -0.99, outcome is the latest window
		),
	}}
	analyzer := NewAnalyzer(source, 0, 0)

	events, report, err := analyzer.Analyze("FPT", 1, 1, -1.0, DefaultWindow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Ranks 2 and 4 are eligible with in-window signals; rank 6 has no
	// forward window
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for _, ev := range events {
		if ev.Result != OutcomeUp {
			t.Errorf("expected Up outcome, got %s", ev.Result)
		}
	}

	if p := report.Probability(OutcomeUp); p != 100.00 {
		t.Errorf("expected Up probability 100, got %v", p)
	}

	prediction, err := analyzer.PredictLatest("FPT", 1, -1.0, DefaultWindow, report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prediction.Status != PredictionPredicted {
		t.Fatalf("expected Predicted, got %s", prediction.Status)
	}
	if prediction.PredictedClass != OutcomeUp {
		t.Errorf("expected Up, got %s", prediction.PredictedClass)
	}
	if prediction.LatestDelta != -0.99 {
		t.Errorf("expected latest delta -0.99, got %v", prediction.LatestDelta)
	}
}

func TestAnalyzeInvalidParams(t *testing.T) {
	analyzer := NewAnalyzer(&fakeSource{}, 0, 0)

	if _, _, err := analyzer.Analyze("FPT", 0, 7, -3.0, DefaultWindow); err == nil {
		t.Error("expected error for validation days < 1")
	}
	if _, _, err := analyzer.Analyze("FPT", 3, 0, -3.0, DefaultWindow); err == nil {
		t.Error("expected error for result days < 1")
	}
}

func TestTargetWindowBounds(t *testing.T) {
	tests := []struct {
		name    string
		window  TargetWindow
		target  float64
		expLow  float64
		expHigh float64
	}{
		{"symmetric default", DefaultWindow, -3.0, -4.0, -2.0},
		{"asymmetric", TargetWindow{LowOffset: -0.5, HighOffset: 0}, 2.0, 1.5, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			low, high := tt.window.Bounds(tt.target)
			if low != tt.expLow || high != tt.expHigh {
				t.Errorf("Bounds(%v) = [%v, %v], want [%v, %v]", tt.target, low, high, tt.expLow, tt.expHigh)
			}
		})
	}
}
