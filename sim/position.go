package sim

import "time"

// Status is the lifecycle state of a position.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// Position is the single open trade slot. The engine owns at most one at a
// time; a new position can never be created while another is open.
//
// Shares is a notional quantity (allocated cash divided by entry price),
// not a real share count.
type Position struct {
	ID          string
	EntryDate   time.Time
	EntryPrice  float64
	Shares      float64
	CostOfTrade float64
	StopLoss    float64
	TargetPrice float64
	Direction   string // expected reversal direction, informational only
	Status      Status

	// Set by the finalizer for a position still open at the end of the
	// series. Unrealized, never settled into the balance.
	LatestPrice float64
	ProfitLoss  float64
}

// UnrealizedPL returns the mark-to-market P/L at the given price.
func (p *Position) UnrealizedPL(price float64) float64 {
	return (price - p.EntryPrice) * p.Shares
}
