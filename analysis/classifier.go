package analysis

import (
	"fmt"
	"time"
)

const dateLayout = "02/01/2006" // DD/MM/YYYY, as shown to users

// Classify tags an eligible forward delta with its outcome class using
// strict sign comparison. An exact 0.00 after rounding is its own class.
func Classify(resultDelta float64) Outcome {
	switch {
	case resultDelta > 0:
		return OutcomeUp
	case resultDelta < 0:
		return OutcomeDown
	default:
		return OutcomeNoChange
	}
}

// signalWindowLabel renders the calendar range spanned by the signal.
func signalWindowLabel(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format(dateLayout), end.Format(dateLayout))
}

// FilterAndClassify keeps only eligible records whose signal delta lies
// inside [low, high] (inclusive both ends), classifies each kept record's
// forward delta, and numbers survivors 1..n in date order. An empty
// result is valid, not an error.
func FilterAndClassify(records []SignalOutcome, low, high float64) []ClassifiedEvent {
	events := []ClassifiedEvent{}
	for _, rec := range records {
		if !rec.Eligible() || rec.SignalStart == nil {
			continue
		}
		sd := *rec.SignalDelta
		if sd < low || sd > high {
			continue
		}
		rd := *rec.ResultDelta
		events = append(events, ClassifiedEvent{
			Seq:          len(events) + 1,
			Date:         rec.Date,
			SignalDelta:  sd,
			Result:       Classify(rd),
			ResultDelta:  rd,
			SignalWindow: signalWindowLabel(*rec.SignalStart, rec.Date),
		})
	}
	return events
}

// ClassifyAll is the screener variant: no target-window filter, every
// eligible record is classified. It measures the unconditional up/down
// base rate for a fixed (V, R) pair.
func ClassifyAll(records []SignalOutcome) []ClassifiedEvent {
	events := []ClassifiedEvent{}
	for _, rec := range records {
		if !rec.Eligible() {
			continue
		}
		rd := *rec.ResultDelta
		ev := ClassifiedEvent{
			Seq:         len(events) + 1,
			Date:        rec.Date,
			SignalDelta: *rec.SignalDelta,
			Result:      Classify(rd),
			ResultDelta: rd,
		}
		if rec.SignalStart != nil {
			ev.SignalWindow = signalWindowLabel(*rec.SignalStart, rec.Date)
		}
		events = append(events, ev)
	}
	return events
}
