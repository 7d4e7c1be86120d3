package sim

import "time"

// ExitReason records which threshold closed a trade.
type ExitReason string

const (
	ExitStopLoss  ExitReason = "STOP_LOSS"
	ExitTargetHit ExitReason = "TARGET_HIT"
)

// Trade is an immutable ledger entry: a snapshot of a closed position plus
// its exit leg. Entries are appended in close order and never mutated.
type Trade struct {
	ID          string
	EntryDate   time.Time
	EntryPrice  float64
	Shares      float64
	CostOfTrade float64
	Direction   string
	ExitDate    time.Time
	ExitPrice   float64
	ProfitLoss  float64
	Reason      ExitReason
	Status      Status // always StatusClosed
}
