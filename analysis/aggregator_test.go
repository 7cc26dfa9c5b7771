package analysis

import (
	"math"
	"testing"
)

func eventsFor(deltas ...float64) []ClassifiedEvent {
	events := make([]ClassifiedEvent, len(deltas))
	for i, d := range deltas {
		events[i] = ClassifiedEvent{
			Seq:         i + 1,
			Result:      Classify(d),
			ResultDelta: d,
		}
	}
	return events
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil)
	if len(report) != 0 {
		t.Errorf("expected empty report, got %d rows", len(report))
	}
}

func TestAggregateCountsAndOrder(t *testing.T) {
	report := Aggregate(eventsFor(2.0, -1.0, 0.0, 3.5, -0.5, 1.0))

	if len(report) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(report))
	}

	expectedOrder := []Outcome{OutcomeUp, OutcomeDown, OutcomeNoChange}
	expectedCounts := []int{3, 2, 1}
	for i, row := range report {
		if row.Result != expectedOrder[i] {
			t.Errorf("row %d: expected %s, got %s", i, expectedOrder[i], row.Result)
		}
		if row.Count != expectedCounts[i] {
			t.Errorf("row %d: expected count %d, got %d", i, expectedCounts[i], row.Count)
		}
	}

	up := report[0]
	if up.Probability != 50.00 {
		t.Errorf("expected Up probability 50.00, got %v", up.Probability)
	}
	if up.MinDelta != 1.0 || up.MaxDelta != 3.5 {
		t.Errorf("expected Up range [1, 3.5], got [%v, %v]", up.MinDelta, up.MaxDelta)
	}
	if up.Range != "1% to 3.5%" {
		t.Errorf("unexpected Up range label %q", up.Range)
	}
	if up.Median != 2.0 {
		t.Errorf("expected Up median 2.0, got %v", up.Median)
	}

	down := report[1]
	if down.Range != "-1% to -0.5%" {
		t.Errorf("unexpected Down range label %q", down.Range)
	}
	if down.Median != -0.75 {
		t.Errorf("expected Down median -0.75 (interpolated), got %v", down.Median)
	}
}

func TestAggregateAbsentClassProducesNoRow(t *testing.T) {
	report := Aggregate(eventsFor(1.0, 2.0, 3.0))

	if len(report) != 1 {
		t.Fatalf("expected 1 row, got %d", len(report))
	}
	if report[0].Result != OutcomeUp {
		t.Errorf("expected Up row, got %s", report[0].Result)
	}

	// Absent classes still read as probability 0 for the predictor
	if p := report.Probability(OutcomeDown); p != 0 {
		t.Errorf("expected Down probability 0, got %v", p)
	}
	if p := report.Probability(OutcomeNoChange); p != 0 {
		t.Errorf("expected NoChange probability 0, got %v", p)
	}
}

func TestAggregateProbabilityLaw(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float64
	}{
		{"thirds", []float64{1, -1, 0}},
		{"sevenths", []float64{1, 2, 3, -1, -2, 0, 0.5}},
		{"uneven", []float64{1, 1, 1, -1, -1, 0, 0, 2, -3, 4, -5, 6, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Aggregate(eventsFor(tt.deltas...))

			sum := 0.0
			for _, row := range report {
				sum += row.Probability
			}

			// Three roundings of at most 0.01 each
			if math.Abs(sum-100) > 0.02 {
				t.Errorf("probabilities sum to %v, want 100±0.02", sum)
			}
		})
	}
}

func TestMedianInterpolation(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"single", []float64{4.2}, 4.2},
		{"odd", []float64{3, 1, 2}, 2},
		{"even midpoint", []float64{1, 2, 3, 4}, 2.5},
		{"even negative", []float64{-4, -1, -3, -2}, -2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.values); got != tt.expected {
				t.Errorf("median(%v) = %v, want %v", tt.values, got, tt.expected)
			}
		})
	}
}
