package sim

import "fmt"

// Settlement selects how cash is credited when a trade closes.
type Settlement string

const (
	// SettleLiquidation credits the full liquidation proceeds
	// (shares * exit price). The cost was debited at entry, so the net
	// effect on the balance is exactly the realized P/L.
	SettleLiquidation Settlement = "liquidation"

	// SettlePLOnly credits only the realized P/L. The cost debited at
	// entry is never returned, so the balance understates the account by
	// the cost of every trade. Kept to reproduce the legacy behavior.
	SettlePLOnly Settlement = "pl-only"
)

// Config holds the scalar parameters of one simulation run.
type Config struct {
	InitialBalance     float64
	AllocationFraction float64 // share of the current balance committed per trade, in [0,1]
	StopLossPct        float64 // stop at entry * (1 - StopLossPct)
	TargetPct          float64 // target at entry * (1 + TargetPct)
	Settlement         Settlement
}

func (c Config) Validate() error {
	if c.InitialBalance <= 0 {
		return fmt.Errorf("initial balance must be positive, got %v", c.InitialBalance)
	}
	if c.AllocationFraction < 0 || c.AllocationFraction > 1 {
		return fmt.Errorf("allocation fraction must be in [0,1], got %v", c.AllocationFraction)
	}
	if c.StopLossPct < 0 || c.StopLossPct >= 1 {
		return fmt.Errorf("stop loss pct must be in [0,1), got %v", c.StopLossPct)
	}
	if c.TargetPct < 0 {
		return fmt.Errorf("target pct must be non-negative, got %v", c.TargetPct)
	}
	switch c.Settlement {
	case SettleLiquidation, SettlePLOnly, "":
	default:
		return fmt.Errorf("unknown settlement rule %q", c.Settlement)
	}
	return nil
}
