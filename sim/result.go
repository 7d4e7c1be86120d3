package sim

// Result is the outcome of one simulation run.
type Result struct {
	InitialBalance float64
	FinalBalance   float64

	// Trades is the append-only ledger of closed trades, in close order
	// (which equals chronological order, since at most one position is
	// open at a time).
	Trades []Trade

	// OpenPosition is the in-progress trade if the run ended mid-trade,
	// with LatestPrice and ProfitLoss set to the last bar's mark. Nil
	// otherwise. It has no ledger entry.
	OpenPosition *Position
}

// NetPL is the realized profit across the ledger.
func (r Result) NetPL() float64 {
	var pl float64
	for _, t := range r.Trades {
		pl += t.ProfitLoss
	}
	return pl
}
