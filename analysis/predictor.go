package analysis

// Predict evaluates the single most recent trading window against the
// signal-window test. latest holds the ticker's most recent bars, date
// descending, and must contain at least validationDays+1 entries for the
// delta to be computable; anything less is InsufficientData, never a
// partial calculation.
//
// When the latest delta falls inside [low, high] the predicted class is
// the one with strictly maximum probability in the report (absent classes
// count as 0). Equal maxima resolve to Uncertain, never to an arbitrary
// pick.
func Predict(ticker string, latest []Bar, validationDays int, low, high float64, report Report) (Prediction, error) {
	if len(latest) < validationDays+1 {
		return Prediction{
			Status:     PredictionInsufficientData,
			WindowLow:  low,
			WindowHigh: high,
		}, nil
	}

	// latest[0] is the newest bar; the bar exactly validationDays trading
	// days earlier is at index validationDays.
	base := latest[validationDays]
	if base.Close <= 0 {
		return Prediction{}, &DataQualityError{Ticker: ticker, Date: base.Date, Close: base.Close}
	}
	latestDelta := pctDelta(base.Close, latest[0].Close)

	if latestDelta < low || latestDelta > high {
		return Prediction{
			Status:      PredictionOutOfRange,
			LatestDelta: latestDelta,
			WindowLow:   low,
			WindowHigh:  high,
		}, nil
	}

	probs := map[Outcome]float64{
		OutcomeUp:       report.Probability(OutcomeUp),
		OutcomeDown:     report.Probability(OutcomeDown),
		OutcomeNoChange: report.Probability(OutcomeNoChange),
	}

	maxProb := 0.0
	for _, p := range probs {
		if p > maxProb {
			maxProb = p
		}
	}

	predicted := PredictionUncertain
	matches := 0
	for _, class := range classOrder {
		if probs[class] == maxProb {
			matches++
			predicted = class
		}
	}
	if matches != 1 {
		predicted = PredictionUncertain
	}

	return Prediction{
		Status:         PredictionPredicted,
		PredictedClass: predicted,
		LatestDelta:    latestDelta,
		WindowLow:      low,
		WindowHigh:     high,
	}, nil
}
