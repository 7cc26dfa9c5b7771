package analysis

import (
	"fmt"
	"sort"
	"strconv"
)

// classOrder fixes the stable report row order.
var classOrder = []Outcome{OutcomeUp, OutcomeDown, OutcomeNoChange}

// median computes the standard interpolated-midpoint median of values.
// values must be non-empty; it is not mutated.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// formatPercent renders a delta without trailing zeros, e.g. "-2.5%".
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// Aggregate cross-tabulates classified events into one report row per
// outcome class present: count, probability (percent of the classified
// set, 2dp), min/max magnitude range and interpolated median of the
// class's result deltas. Absent classes produce no row; Report.Probability
// defaults them to 0 for the predictor.
func Aggregate(events []ClassifiedEvent) Report {
	if len(events) == 0 {
		return Report{}
	}

	byClass := make(map[Outcome][]float64)
	for _, ev := range events {
		byClass[ev.Result] = append(byClass[ev.Result], ev.ResultDelta)
	}

	total := len(events)
	report := Report{}
	for _, class := range classOrder {
		deltas, ok := byClass[class]
		if !ok {
			continue
		}

		min, max := deltas[0], deltas[0]
		for _, d := range deltas[1:] {
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
		}

		report = append(report, ClassStats{
			Result:      class,
			Count:       len(deltas),
			Probability: round2(float64(len(deltas)) / float64(total) * 100),
			MinDelta:    min,
			MaxDelta:    max,
			Median:      round2(median(deltas)),
			Range:       fmt.Sprintf("%s to %s", formatPercent(min), formatPercent(max)),
		})
	}

	return report
}
