// Package strategy decides when the simulator should open a position.
package strategy

import (
	"fmt"
	"strings"

	"github.com/spreadlab/calspread/market"
)

// Direction labels the reversal a detector expects after a move. The label
// is informational metadata on the resulting trade; it does not change how
// the position is sized or executed.
const (
	DirectionUp   = "UP"
	DirectionDown = "DOWN"
)

// Signal is a detector's verdict for one bar.
type Signal struct {
	Fired     bool
	Direction string
	MovePct   float64 // fractional move vs previous close, e.g. 0.006
}

// Detector is the minimal interface an entry rule must implement. It is
// called once per bar, starting from the second bar, with the previous and
// current bars. It is never consulted while a position is open.
type Detector interface {
	Evaluate(prev, cur market.Bar) Signal
}

var registry = make(map[string]Detector)

// Register makes a named detector available to ByName.
func Register(name string, d Detector) {
	registry[name] = d
}

// Get returns a previously registered detector, or nil.
func Get(name string) Detector {
	return registry[name]
}

// ByName constructs one of the built-in detectors.
func ByName(name string, moveThresholdPct float64) (Detector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "reversal", "":
		return &Reversal{ThresholdPct: moveThresholdPct}, nil

	case "noop", "none":
		return Noop{}, nil

	default:
		if d := Get(name); d != nil {
			return d, nil
		}
		return nil, fmt.Errorf("unknown detector %q (supported: reversal, noop)", name)
	}
}

// Noop never fires. Useful as a baseline: the backtest degenerates to
// holding cash.
type Noop struct{}

func (Noop) Evaluate(prev, cur market.Bar) Signal { return Signal{} }
