package analysis

import (
	"errors"
	"fmt"
	"time"
)

// DataQualityError reports a zero or negative close price at a position
// where a ratio is computed. Valid market data has strictly positive
// closes, so this must surface as an error instead of an Inf/NaN delta.
type DataQualityError struct {
	Ticker string
	Date   time.Time
	Close  int64
}

// Error implements the error interface
func (e *DataQualityError) Error() string {
	return fmt.Sprintf("data quality error for %s on %s: non-positive close %d",
		e.Ticker, e.Date.Format("2006-01-02"), e.Close)
}

// IsDataQuality reports whether err is (or wraps) a DataQualityError.
func IsDataQuality(err error) bool {
	var dq *DataQualityError
	return errors.As(err, &dq)
}
