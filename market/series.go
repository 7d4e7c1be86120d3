package market

import (
	"fmt"
	"time"
)

// Series is an ordered sequence of daily bars, one per trading day,
// strictly increasing by date.
type Series []Bar

// Validate checks the ordering invariant: dates strictly increasing,
// no duplicates, all closes positive.
func (s Series) Validate() error {
	var prev time.Time
	for i, b := range s {
		if b.Time.IsZero() {
			return fmt.Errorf("bar %d: zero time", i)
		}
		if b.Close <= 0 {
			return fmt.Errorf("bar %d (%s): non-positive close %v", i, b.Time.Format("2006-01-02"), b.Close)
		}
		if i > 0 && !b.Time.After(prev) {
			return fmt.Errorf("bar %d (%s): not after previous bar (%s)", i, b.Time.Format("2006-01-02"), prev.Format("2006-01-02"))
		}
		prev = b.Time
	}
	return nil
}

// Closes returns the close prices in bar order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Between returns the sub-series with bar times in [from, to).
// A zero from or to leaves that side unbounded.
func (s Series) Between(from, to time.Time) Series {
	var out Series
	for _, b := range s {
		if !from.IsZero() && b.Time.Before(from) {
			continue
		}
		if !to.IsZero() && !b.Time.Before(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}
