// Package journal persists the records a simulation run produces: detected
// signals, closed trades and the per-bar equity curve.
package journal

import "time"

// TradeRecord is one closed trade as persisted.
type TradeRecord struct {
	TradeID    string
	Instrument string
	EntryDate  time.Time
	EntryPrice float64
	Shares     float64
	Cost       float64
	Direction  string
	ExitDate   time.Time
	ExitPrice  float64
	RealizedPL float64
	Reason     string
}

// SignalRecord is one detected entry setup, whether or not it led to a
// position.
type SignalRecord struct {
	Time       time.Time
	Instrument string
	Direction  string
	MovePct    float64
}

// EquitySnapshot is the account state after one bar.
type EquitySnapshot struct {
	Time    time.Time
	Balance float64
	Equity  float64
}

type Journal interface {
	RecordSignal(SignalRecord) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}
