package analysis

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		delta    float64
		expected Outcome
	}{
		{"positive", 2.5, OutcomeUp},
		{"tiny positive", 0.01, OutcomeUp},
		{"negative", -1.2, OutcomeDown},
		{"tiny negative", -0.01, OutcomeDown},
		{"exact zero", 0.0, OutcomeNoChange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.delta); got != tt.expected {
				t.Errorf("Classify(%v) = %s, want %s", tt.delta, got, tt.expected)
			}
		})
	}
}

func TestFilterAndClassify(t *testing.T) {
	// Closes chosen so consecutive 1-day deltas land on, inside, and
	// outside a [-1, 1] window around 0.
	bars := barSeries(
		100000, // rank 1
		101000, // rank 2: +1.00 (on upper bound)
		101500, // rank 3: +0.50 (inside)
		103600, // rank 4: +2.07 (outside)
		103600, // rank 5: 0.00 (inside)
		102500, // rank 6: -1.06 (outside)
	)

	records, err := ScanBars("FPT", bars, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events := FilterAndClassify(records, -1.0, 1.0)

	// Ranks 2, 3 and 5 have eligible, in-window signal deltas; rank 4 is
	// outside the window and ranks 1 and 6 lack a backward/forward window.
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	for i, ev := range events {
		if ev.Seq != i+1 {
			t.Errorf("event %d has seq %d", i, ev.Seq)
		}
	}

	first := events[0]
	if first.SignalDelta != 1.00 {
		t.Errorf("expected inclusive upper bound to keep +1.00, got %v", first.SignalDelta)
	}
	if first.Result != OutcomeUp || first.ResultDelta != 0.50 {
		t.Errorf("expected Up 0.50, got %s %v", first.Result, first.ResultDelta)
	}
	if first.SignalWindow != "02/01/2024 - 03/01/2024" {
		t.Errorf("unexpected signal window label %q", first.SignalWindow)
	}

	// Rank 5's forward delta is -1.06: Down
	third := events[2]
	if third.SignalDelta != 0.00 {
		t.Errorf("expected signal delta 0.00, got %v", third.SignalDelta)
	}
	if third.Result != OutcomeDown {
		t.Errorf("expected Down, got %s", third.Result)
	}
}

func TestFilterAndClassifyNoMatches(t *testing.T) {
	bars := barSeries(100000, 110000, 121000, 133100)
	records, err := ScanBars("GAS", bars, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every delta is +10%; a window around -5 matches nothing.
	events := FilterAndClassify(records, -6.0, -4.0)
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestClassifyAllSkipsWindowFilter(t *testing.T) {
	bars := barSeries(100000, 110000, 99000, 99000, 104000)
	records, err := ScanBars("VNM", bars, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events := ClassifyAll(records)
	if len(events) != 3 {
		t.Fatalf("expected 3 eligible events, got %d", len(events))
	}

	expected := []Outcome{OutcomeDown, OutcomeNoChange, OutcomeUp}
	for i, ev := range events {
		if ev.Result != expected[i] {
			t.Errorf("event %d: expected %s, got %s", i, expected[i], ev.Result)
		}
	}
}

func TestClassificationPartitionsBySign(t *testing.T) {
	bars := barSeries(100000, 101000, 99500, 99500, 102000, 98000, 98000, 103000)
	records, err := ScanBars("HPG", bars, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, ev := range ClassifyAll(records) {
		switch ev.Result {
		case OutcomeUp:
			if ev.ResultDelta <= 0 {
				t.Errorf("Up event with delta %v", ev.ResultDelta)
			}
		case OutcomeDown:
			if ev.ResultDelta >= 0 {
				t.Errorf("Down event with delta %v", ev.ResultDelta)
			}
		case OutcomeNoChange:
			if ev.ResultDelta != 0 {
				t.Errorf("NoChange event with delta %v", ev.ResultDelta)
			}
		}
	}
}
