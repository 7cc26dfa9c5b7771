package analysis

import (
	"math"
)

// round2 rounds to 2 decimal places, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pctDelta is the percentage change from base to next, rounded to 2dp.
func pctDelta(base, next int64) float64 {
	return round2(float64(next-base) / float64(base) * 100)
}

// ScanBars walks a ticker's ordered trading-day sequence and computes, for
// every day, the backward delta over the preceding validationDays trading
// days and the forward delta over the following resultDays trading days.
// bars must be ordered by date ascending, one row per trading day; the
// dense 1-based rank assigned here is the unit of window distance, so
// weekend and holiday gaps never shift a window onto the wrong bar.
//
// Positions where a window does not fit get a nil delta rather than being
// dropped, so callers can distinguish "no data matched" from errors.
// A non-positive close at any position used as a ratio base returns a
// DataQualityError.
func ScanBars(ticker string, bars []Bar, validationDays, resultDays int) ([]SignalOutcome, error) {
	if len(bars) == 0 {
		return []SignalOutcome{}, nil
	}

	n := len(bars)
	records := make([]SignalOutcome, 0, n)

	for i := 0; i < n; i++ {
		rec := SignalOutcome{
			Date:  bars[i].Date,
			Rank:  i + 1,
			Close: bars[i].Close,
		}

		prev := i - validationDays
		if prev >= 0 {
			// Ranks are dense by construction, but the window test stays
			// explicit: rank[i] - rank[prev] must equal validationDays.
			if rec.Rank-(prev+1) == validationDays {
				if bars[prev].Close <= 0 {
					return nil, &DataQualityError{Ticker: ticker, Date: bars[prev].Date, Close: bars[prev].Close}
				}
				d := pctDelta(bars[prev].Close, bars[i].Close)
				rec.SignalDelta = &d
				start := bars[prev].Date
				rec.SignalStart = &start
			}
		}

		next := i + resultDays
		if next < n {
			if (next+1)-rec.Rank == resultDays {
				if bars[i].Close <= 0 {
					return nil, &DataQualityError{Ticker: ticker, Date: bars[i].Date, Close: bars[i].Close}
				}
				d := pctDelta(bars[i].Close, bars[next].Close)
				rec.ResultDelta = &d
			}
		}

		records = append(records, rec)
	}

	return records, nil
}
