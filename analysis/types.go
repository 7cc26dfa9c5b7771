package analysis

import "time"

// Outcome classifies the forward move that followed a signal.
// Zero is its own class, never folded into Up or Down.
type Outcome string

const (
	OutcomeUp       Outcome = "Up"
	OutcomeDown     Outcome = "Down"
	OutcomeNoChange Outcome = "No Change"
)

// Bar is the slice of a stored price bar the scanner needs: the trading
// date and the close, already descaled to the stored integer form.
type Bar struct {
	Date  time.Time `json:"date"`
	Close int64     `json:"close"`
}

// BarSource is the read side of the time-series store. Implemented by
// database/bars.Repository; tests substitute an in-memory fake.
type BarSource interface {
	// GetOrderedBars returns every bar for the ticker, date ascending,
	// one row per trading day on record.
	GetOrderedBars(ticker string) ([]Bar, error)
	// GetLatestBars returns at most count bars, date descending.
	GetLatestBars(ticker string, count int) ([]Bar, error)
	// GetTickerUniverse returns tickers (excluding the index symbol)
	// whose average volume across stored history meets the threshold.
	GetTickerUniverse(minAvgVolume int64) ([]string, error)
}

// SignalOutcome is the scanner's per-trading-day record. Rank is the
// dense 1-based position of the day within the ticker's history; it, not
// the calendar date, is the unit of distance for the V/R windows.
// SignalDelta and ResultDelta are nil when the corresponding window does
// not fit inside the stored history.
type SignalOutcome struct {
	Date        time.Time  `json:"date"`
	Rank        int        `json:"rank"`
	Close       int64      `json:"close"`
	SignalDelta *float64   `json:"signal_delta"`
	ResultDelta *float64   `json:"result_delta"`
	SignalStart *time.Time `json:"signal_start"`
}

// Eligible reports whether both windows were computable for this day.
func (s SignalOutcome) Eligible() bool {
	return s.SignalDelta != nil && s.ResultDelta != nil
}

// TargetWindow is the inclusive signal-delta range the analysis
// conditions on, expressed as offsets around the requested target.
// The reference behavior is ±1 percentage point.
type TargetWindow struct {
	LowOffset  float64 `json:"low_offset"`
	HighOffset float64 `json:"high_offset"`
}

// DefaultWindow matches the symmetric ±1 reference behavior.
var DefaultWindow = TargetWindow{LowOffset: -1.0, HighOffset: 1.0}

// Bounds resolves the window around a concrete target value.
func (w TargetWindow) Bounds(target float64) (low, high float64) {
	return target + w.LowOffset, target + w.HighOffset
}

// ClassifiedEvent is an eligible record whose signal delta fell inside
// the target window, tagged with its outcome class.
type ClassifiedEvent struct {
	Seq          int       `json:"no_events"`
	Date         time.Time `json:"event_date"`
	SignalDelta  float64   `json:"signal_delta"`
	Result       Outcome   `json:"result"`
	ResultDelta  float64   `json:"result_delta"`
	SignalWindow string    `json:"signal_date_range"` // "DD/MM/YYYY - DD/MM/YYYY"
}

// ClassStats is one aggregate-report row for one outcome class.
type ClassStats struct {
	Result      Outcome `json:"result"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"` // percent, 2dp
	MinDelta    float64 `json:"min_delta"`
	MaxDelta    float64 `json:"max_delta"`
	Median      float64 `json:"median"`
	Range       string  `json:"range"` // "{min}% to {max}%"
}

// Report is the aggregate report: one row per class present in the
// classified set, in Up, Down, NoChange order.
type Report []ClassStats

// Probability returns the class probability, defaulting to 0 for
// classes absent from the report.
func (r Report) Probability(class Outcome) float64 {
	for _, row := range r {
		if row.Result == class {
			return row.Probability
		}
	}
	return 0
}

// PredictionStatus is one of the predictor's three terminal states.
type PredictionStatus string

const (
	PredictionInsufficientData PredictionStatus = "InsufficientData"
	PredictionOutOfRange       PredictionStatus = "OutOfRange"
	PredictionPredicted        PredictionStatus = "Predicted"
)

// PredictionUncertain is the predicted class when two or more classes tie
// for the maximum probability.
const PredictionUncertain Outcome = "Uncertain"

// Prediction is the structured predictor result. Narrative text shown to
// a user is a presentation concern built from this, not part of it.
type Prediction struct {
	Status         PredictionStatus `json:"status"`
	PredictedClass Outcome          `json:"predicted_class,omitempty"`
	LatestDelta    float64          `json:"latest_delta"`
	WindowLow      float64          `json:"window_low"`
	WindowHigh     float64          `json:"window_high"`
}

// TickerStats is the screener's per-ticker unconditional base rate for a
// fixed (V, R) pair. Magnitude fields are nil when the class never
// occurred for the ticker.
type TickerStats struct {
	Ticker          string   `json:"ticker"`
	TotalSignals    int      `json:"total_signals"`
	PossibilityUp   float64  `json:"possibility_up"`
	PossibilityDown float64  `json:"possibility_down"`
	MinUpDelta      *float64 `json:"min_up_delta,omitempty"`
	MedianUpDelta   *float64 `json:"median_up_delta,omitempty"`
	MaxUpDelta      *float64 `json:"max_up_delta,omitempty"`
	MinDownDelta    *float64 `json:"min_down_delta,omitempty"`
	MedianDownDelta *float64 `json:"median_down_delta,omitempty"`
	MaxDownDelta    *float64 `json:"max_down_delta,omitempty"`
}

// ScreenerResult holds the four ranked top-5 lists of the screener.
type ScreenerResult struct {
	TickersAnalyzed    int           `json:"tickers_analyzed"`
	TickersExcluded    int           `json:"tickers_excluded"`
	TopUpProbability   []TickerStats `json:"top_up_probability"`
	TopUpDelta         []TickerStats `json:"top_up_delta"`
	TopDownProbability []TickerStats `json:"top_down_probability"`
	TopDownDelta       []TickerStats `json:"top_down_delta"`
}
