package strategy

import (
	"time"

	"github.com/spreadlab/calspread/market"
)

// Scripted replays externally supplied discrete signals keyed by bar date,
// for runs where the entry decision was precomputed elsewhere.
type Scripted struct {
	signals map[time.Time]Signal
}

// NewScripted builds a scripted detector from date-keyed signals. Dates are
// truncated to midnight UTC for lookup.
func NewScripted(signals map[time.Time]Signal) *Scripted {
	m := make(map[time.Time]Signal, len(signals))
	for t, s := range signals {
		y, mo, d := t.UTC().Date()
		s.Fired = true
		m[time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)] = s
	}
	return &Scripted{signals: m}
}

func (s *Scripted) Evaluate(prev, cur market.Bar) Signal {
	return s.signals[cur.Date()]
}
