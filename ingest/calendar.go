package ingest

import "time"

// reportCutoffHour: the vendor publishes the end-of-day archive around
// 20:00 Indochina time; before that the latest complete archive is the
// previous trading day's.
const reportCutoffHour = 20

// Timezone of the exchange and the vendor's publishing schedule.
const exchangeTimezone = "Asia/Ho_Chi_Minh"

// LastTradingDay rolls weekend dates back to the preceding Friday.
// Exchange holidays are not modeled; per-ticker row density handles them.
func LastTradingDay(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, -2)
	}
	return d
}

// DefaultReportDate picks the newest archive date expected to exist at
// the given wall-clock time: today once past the publishing cutoff,
// otherwise the previous trading day.
func DefaultReportDate(now time.Time) time.Time {
	report := now
	if now.Hour() < reportCutoffHour {
		report = report.AddDate(0, 0, -1)
		if now.Weekday() == time.Monday {
			report = report.AddDate(0, 0, -2)
		}
	}
	return LastTradingDay(report)
}

// NowExchange returns the current time in the exchange timezone, falling
// back to local time if the zone database is unavailable.
func NowExchange() time.Time {
	loc, err := time.LoadLocation(exchangeTimezone)
	if err != nil {
		return time.Now()
	}
	return time.Now().In(loc)
}
