package sim

import (
	"time"

	"github.com/spreadlab/calspread/strategy"
)

// The engine emits domain events instead of writing to any particular sink.
// An Observer subscribes to the run; the journal package provides one that
// persists events, and NopObserver discards them.

type SignalEvent struct {
	Time   time.Time
	Signal strategy.Signal
}

type EntryEvent struct {
	Position Position
	Balance  float64 // balance after the entry debit
}

type ExitEvent struct {
	Trade   Trade
	Balance float64 // balance after settlement
}

// EquityEvent is a per-bar account snapshot. Equity marks any open position
// to the bar's close.
type EquityEvent struct {
	Time    time.Time
	Balance float64
	Equity  float64
}

type Observer interface {
	OnSignal(SignalEvent) error
	OnEntry(EntryEvent) error
	OnExit(ExitEvent) error
	OnEquity(EquityEvent) error
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnSignal(SignalEvent) error { return nil }
func (NopObserver) OnEntry(EntryEvent) error   { return nil }
func (NopObserver) OnExit(ExitEvent) error     { return nil }
func (NopObserver) OnEquity(EquityEvent) error { return nil }
