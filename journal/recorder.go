package journal

import "github.com/spreadlab/calspread/sim"

// Recorder subscribes a Journal to a simulation's domain events. It is the
// only coupling between the engine and any persistence sink.
type Recorder struct {
	Journal    Journal
	Instrument string
}

var _ sim.Observer = (*Recorder)(nil)

func (r *Recorder) OnSignal(ev sim.SignalEvent) error {
	return r.Journal.RecordSignal(SignalRecord{
		Time:       ev.Time,
		Instrument: r.Instrument,
		Direction:  ev.Signal.Direction,
		MovePct:    ev.Signal.MovePct,
	})
}

func (r *Recorder) OnEntry(ev sim.EntryEvent) error {
	// Entries are journaled when the trade closes; the signal row already
	// marks the setup.
	return nil
}

func (r *Recorder) OnExit(ev sim.ExitEvent) error {
	t := ev.Trade
	return r.Journal.RecordTrade(TradeRecord{
		TradeID:    t.ID,
		Instrument: r.Instrument,
		EntryDate:  t.EntryDate,
		EntryPrice: t.EntryPrice,
		Shares:     t.Shares,
		Cost:       t.CostOfTrade,
		Direction:  t.Direction,
		ExitDate:   t.ExitDate,
		ExitPrice:  t.ExitPrice,
		RealizedPL: t.ProfitLoss,
		Reason:     string(t.Reason),
	})
}

func (r *Recorder) OnEquity(ev sim.EquityEvent) error {
	return r.Journal.RecordEquity(EquitySnapshot{
		Time:    ev.Time,
		Balance: ev.Balance,
		Equity:  ev.Equity,
	})
}
