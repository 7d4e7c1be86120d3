// Package sim replays a daily bar series through a single-position
// mean-reversion trade simulator.
package sim

import (
	"errors"
	"fmt"

	"github.com/spreadlab/calspread/internal/id"
	"github.com/spreadlab/calspread/market"
	"github.com/spreadlab/calspread/strategy"
)

// ErrInvalidEntry marks an entry the opener refused: non-positive price or
// non-positive allocated cash. The run recovers by skipping the entry.
var ErrInvalidEntry = errors.New("invalid entry conditions")

// Engine walks a bar series in order, opening at most one position at a
// time on the detector's signal and closing it on stop-loss or target.
//
// An Engine is not safe for concurrent use; each run owns its balance,
// position slot and ledger exclusively.
type Engine struct {
	cfg      Config
	detector strategy.Detector
	observer Observer

	balance  float64
	position *Position
	trades   []Trade
}

func NewEngine(cfg Config, det strategy.Detector) *Engine {
	return &Engine{
		cfg:      cfg,
		detector: det,
		observer: NopObserver{},
	}
}

// SetObserver subscribes an observer to the engine's domain events.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	e.observer = o
}

// Run replays the series and returns the ledger and final balance. State is
// reset at the start, so running twice over the same series produces an
// identical result.
//
// A series of zero or one bars yields an empty ledger and an unchanged
// balance: one close is not enough to evaluate a move.
func (e *Engine) Run(bars market.Series) (Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("config: %w", err)
	}
	if err := bars.Validate(); err != nil {
		return Result{}, fmt.Errorf("series: %w", err)
	}

	e.balance = e.cfg.InitialBalance
	e.position = nil
	e.trades = nil

	for i, bar := range bars {
		// An open position blocks entry evaluation for the whole bar,
		// even if it closes on this bar.
		if e.position != nil {
			if err := e.checkExit(bar); err != nil {
				return Result{}, err
			}
			if err := e.snapshot(bar); err != nil {
				return Result{}, err
			}
			continue
		}

		if i > 0 {
			sig := e.detector.Evaluate(bars[i-1], bar)
			if sig.Fired {
				if err := e.observer.OnSignal(SignalEvent{Time: bar.Time, Signal: sig}); err != nil {
					return Result{}, err
				}
				if err := e.open(bar, sig); err != nil && !errors.Is(err, ErrInvalidEntry) {
					return Result{}, err
				}
			}
		}

		if err := e.snapshot(bar); err != nil {
			return Result{}, err
		}
	}

	return e.finalize(bars), nil
}

// open materializes a new position at the bar's close and debits the
// allocated cash. The committed cash is at risk for the duration of the
// trade and is not available for a second position.
func (e *Engine) open(bar market.Bar, sig strategy.Signal) error {
	cost := e.balance * e.cfg.AllocationFraction
	if bar.Close <= 0 || cost <= 0 {
		return fmt.Errorf("%w: price=%v allocated=%v", ErrInvalidEntry, bar.Close, cost)
	}

	e.balance -= cost
	e.position = &Position{
		ID:          id.New(),
		EntryDate:   bar.Time,
		EntryPrice:  bar.Close,
		Shares:      cost / bar.Close,
		CostOfTrade: cost,
		StopLoss:    bar.Close * (1 - e.cfg.StopLossPct),
		TargetPrice: bar.Close * (1 + e.cfg.TargetPct),
		Direction:   sig.Direction,
		Status:      StatusOpen,
	}

	return e.observer.OnEntry(EntryEvent{Position: *e.position, Balance: e.balance})
}

// checkExit closes the open position if the bar's close crosses a
// threshold. The stop is checked before the target, so a misconfigured
// position whose stop sits above its target still stops out.
func (e *Engine) checkExit(bar market.Bar) error {
	switch {
	case bar.Close <= e.position.StopLoss:
		return e.close(bar, ExitStopLoss)
	case bar.Close >= e.position.TargetPrice:
		return e.close(bar, ExitTargetHit)
	}
	return nil
}

// close finalizes the open position into a ledger entry, settles cash and
// frees the position slot. Entry is next evaluated on the following bar.
func (e *Engine) close(bar market.Bar, reason ExitReason) error {
	p := e.position
	pl := p.UnrealizedPL(bar.Close)

	switch e.cfg.Settlement {
	case SettlePLOnly:
		e.balance += pl
	default:
		e.balance += p.Shares * bar.Close
	}

	t := Trade{
		ID:          p.ID,
		EntryDate:   p.EntryDate,
		EntryPrice:  p.EntryPrice,
		Shares:      p.Shares,
		CostOfTrade: p.CostOfTrade,
		Direction:   p.Direction,
		ExitDate:    bar.Time,
		ExitPrice:   bar.Close,
		ProfitLoss:  pl,
		Reason:      reason,
		Status:      StatusClosed,
	}
	e.trades = append(e.trades, t)
	e.position = nil

	return e.observer.OnExit(ExitEvent{Trade: t, Balance: e.balance})
}

func (e *Engine) snapshot(bar market.Bar) error {
	equity := e.balance
	if e.position != nil {
		equity += e.position.Shares * bar.Close
	}
	return e.observer.OnEquity(EquityEvent{Time: bar.Time, Balance: e.balance, Equity: equity})
}

// finalize marks a still-open position to the last close for reporting. The
// trade stays open and unrealized: no ledger entry, no settlement.
func (e *Engine) finalize(bars market.Series) Result {
	res := Result{
		InitialBalance: e.cfg.InitialBalance,
		FinalBalance:   e.balance,
		Trades:         e.trades,
	}

	if e.position != nil && len(bars) > 0 {
		last := bars[len(bars)-1]
		p := *e.position
		p.LatestPrice = last.Close
		p.ProfitLoss = p.UnrealizedPL(last.Close)
		res.OpenPosition = &p
	}
	return res
}
