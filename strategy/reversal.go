package strategy

import (
	"math"

	"github.com/spreadlab/calspread/market"
)

// Reversal fires when the close moves more than ThresholdPct (fractional,
// 0.005 = 0.5%) in either direction from the previous close. It is a
// mean-reversion bet: a drop is labelled an expected UP reversal and a rise
// an expected DOWN reversal.
type Reversal struct {
	ThresholdPct float64
}

func (r *Reversal) Evaluate(prev, cur market.Bar) Signal {
	if prev.Close <= 0 {
		return Signal{}
	}

	move := (cur.Close - prev.Close) / prev.Close
	if math.Abs(move) <= r.ThresholdPct {
		return Signal{MovePct: move}
	}

	dir := DirectionDown
	if move < 0 {
		dir = DirectionUp
	}
	return Signal{Fired: true, Direction: dir, MovePct: move}
}
