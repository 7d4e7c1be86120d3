package market

import "time"

// Bar is one trading day's closing price observation.
type Bar struct {
	Time  time.Time
	Close float64
}

// Date returns the bar's day truncated to midnight UTC.
func (b Bar) Date() time.Time {
	y, m, d := b.Time.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
