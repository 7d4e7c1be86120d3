package sim

import (
	"math"
	"testing"
	"time"

	"github.com/spreadlab/calspread/market"
	"github.com/spreadlab/calspread/strategy"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func bars(closes ...float64) market.Series {
	out := make(market.Series, len(closes))
	for i, c := range closes {
		out[i] = market.Bar{Time: day(i), Close: c}
	}
	return out
}

func defaultConfig() Config {
	return Config{
		InitialBalance:     1000,
		AllocationFraction: 1.0,
		StopLossPct:        0.02,
		TargetPct:          0.05,
		Settlement:         SettleLiquidation,
	}
}

func run(t *testing.T, cfg Config, series market.Series) Result {
	t.Helper()
	e := NewEngine(cfg, &strategy.Reversal{ThresholdPct: 0.005})
	res, err := e.Run(series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestStopLossScenario(t *testing.T) {
	// d1 move = +0.6% > 0.5% -> entry at 100.6; d2 close 95 <= stop 98.588.
	res := run(t, defaultConfig(), bars(100, 100.6, 95, 130))

	if len(res.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(res.Trades))
	}

	tr := res.Trades[0]
	shares := 1000.0 / 100.6

	if !tr.EntryDate.Equal(day(1)) {
		t.Fatalf("entry date: got %v", tr.EntryDate)
	}
	if !approxEqual(tr.EntryPrice, 100.6, 1e-9) {
		t.Fatalf("entry price: got %v", tr.EntryPrice)
	}
	if !approxEqual(tr.Shares, shares, 1e-9) {
		t.Fatalf("shares: got %v want %v", tr.Shares, shares)
	}
	if tr.Reason != ExitStopLoss {
		t.Fatalf("reason: got %v", tr.Reason)
	}
	if !tr.ExitDate.Equal(day(2)) {
		t.Fatalf("exit date: got %v", tr.ExitDate)
	}
	if !approxEqual(tr.ProfitLoss, (95-100.6)*shares, 1e-9) {
		t.Fatalf("pl: got %v", tr.ProfitLoss)
	}
	if tr.Direction != strategy.DirectionDown {
		t.Fatalf("direction: got %v", tr.Direction)
	}
	if tr.Status != StatusClosed {
		t.Fatalf("status: got %v", tr.Status)
	}

	// The d3 move (+36.8% off the stop-out close) fires a fresh entry that
	// stays open, recommitting the full liquidation proceeds.
	if res.OpenPosition == nil {
		t.Fatalf("expected re-entry on d3 to remain open")
	}
	if !approxEqual(res.OpenPosition.EntryPrice, 130, 1e-9) {
		t.Fatalf("re-entry price: got %v", res.OpenPosition.EntryPrice)
	}
	if !approxEqual(res.OpenPosition.CostOfTrade, shares*95, 1e-9) {
		t.Fatalf("re-entry cost: got %v want %v", res.OpenPosition.CostOfTrade, shares*95)
	}
	if !approxEqual(res.FinalBalance, 0, 1e-9) {
		t.Fatalf("balance: got %v want 0", res.FinalBalance)
	}
}

func TestTargetHit(t *testing.T) {
	res := run(t, defaultConfig(), bars(100, 100.6, 106))

	if len(res.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(res.Trades))
	}
	tr := res.Trades[0]
	if tr.Reason != ExitTargetHit {
		t.Fatalf("reason: got %v", tr.Reason)
	}
	shares := 1000.0 / 100.6
	if !approxEqual(res.FinalBalance, shares*106, 1e-9) {
		t.Fatalf("balance: got %v", res.FinalBalance)
	}
	if res.OpenPosition != nil {
		t.Fatalf("no position should remain open")
	}
}

func TestFlatSeriesNoTrades(t *testing.T) {
	res := run(t, defaultConfig(), bars(100, 100.2, 100.1, 100.3, 100.2))

	if len(res.Trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(res.Trades))
	}
	if res.FinalBalance != 1000 {
		t.Fatalf("balance changed: got %v", res.FinalBalance)
	}
	if res.OpenPosition != nil {
		t.Fatalf("unexpected open position")
	}
}

func TestOpenAtEndOfSeries(t *testing.T) {
	// Entry on d1, then the price drifts inside the stop/target band.
	res := run(t, defaultConfig(), bars(100, 100.6, 101, 102))

	if len(res.Trades) != 0 {
		t.Fatalf("open trade must not be ledgered, got %d entries", len(res.Trades))
	}
	p := res.OpenPosition
	if p == nil {
		t.Fatalf("expected open position snapshot")
	}
	if p.Status != StatusOpen {
		t.Fatalf("status: got %v", p.Status)
	}
	if !approxEqual(p.LatestPrice, 102, 1e-9) {
		t.Fatalf("latest price: got %v", p.LatestPrice)
	}
	wantPL := (102 - 100.6) * (1000.0 / 100.6)
	if !approxEqual(p.ProfitLoss, wantPL, 1e-9) {
		t.Fatalf("unrealized pl: got %v want %v", p.ProfitLoss, wantPL)
	}
	// Unrealized: all cash stays committed.
	if !approxEqual(res.FinalBalance, 0, 1e-9) {
		t.Fatalf("balance: got %v", res.FinalBalance)
	}
}

func TestEmptyAndSingleBarSeries(t *testing.T) {
	for _, series := range []market.Series{nil, bars(100)} {
		res := run(t, defaultConfig(), series)
		if len(res.Trades) != 0 {
			t.Fatalf("expected empty ledger for %d bars", len(series))
		}
		if res.FinalBalance != 1000 {
			t.Fatalf("balance changed for %d bars: got %v", len(series), res.FinalBalance)
		}
		if res.OpenPosition != nil {
			t.Fatalf("unexpected open position for %d bars", len(series))
		}
	}
}

func TestStopCheckedBeforeTarget(t *testing.T) {
	// Zero stop and target percentages collapse both thresholds onto the
	// entry price, so the next bar satisfies both. Stop loss wins.
	cfg := defaultConfig()
	cfg.StopLossPct = 0
	cfg.TargetPct = 0

	res := run(t, cfg, bars(100, 100.6, 100.6))

	if len(res.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(res.Trades))
	}
	if res.Trades[0].Reason != ExitStopLoss {
		t.Fatalf("stop loss must take precedence, got %v", res.Trades[0].Reason)
	}
}

func TestNoEntryOnExitBar(t *testing.T) {
	// d2 stops the trade out with a -5.57% move, which would itself be an
	// entry signal; the open position blocks entry for that whole bar.
	res := run(t, defaultConfig(), bars(100, 100.6, 95))

	if len(res.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(res.Trades))
	}
	if res.OpenPosition != nil {
		t.Fatalf("no entry may be opened on the exit bar")
	}

	// Full liquidation: balance = shares * exit price (~944.33).
	shares := 1000.0 / 100.6
	if !approxEqual(res.FinalBalance, shares*95, 1e-9) {
		t.Fatalf("balance: got %v want %v", res.FinalBalance, shares*95)
	}
}

func TestAllocationFraction(t *testing.T) {
	cfg := defaultConfig()
	cfg.AllocationFraction = 0.05

	res := run(t, cfg, bars(100, 100.6, 95))

	tr := res.Trades[0]
	if !approxEqual(tr.CostOfTrade, 50, 1e-9) {
		t.Fatalf("cost: got %v", tr.CostOfTrade)
	}
	if !approxEqual(tr.Shares, 50.0/100.6, 1e-9) {
		t.Fatalf("shares: got %v", tr.Shares)
	}
	// 950 uncommitted + liquidation proceeds.
	want := 950 + (50.0/100.6)*95
	if !approxEqual(res.FinalBalance, want, 1e-9) {
		t.Fatalf("balance: got %v want %v", res.FinalBalance, want)
	}
}

func TestPLOnlySettlement(t *testing.T) {
	cfg := defaultConfig()
	cfg.AllocationFraction = 0.05
	cfg.Settlement = SettlePLOnly

	res := run(t, cfg, bars(100, 100.6, 95))

	// The legacy rule credits only the P/L; the entry debit stays gone.
	shares := 50.0 / 100.6
	want := 950 + (95-100.6)*shares
	if !approxEqual(res.FinalBalance, want, 1e-9) {
		t.Fatalf("balance: got %v want %v", res.FinalBalance, want)
	}
}

func TestZeroAllocationSkipsEntry(t *testing.T) {
	cfg := defaultConfig()
	cfg.AllocationFraction = 0

	res := run(t, cfg, bars(100, 100.6, 95, 130, 95))

	if len(res.Trades) != 0 || res.OpenPosition != nil {
		t.Fatalf("degenerate entries must be refused")
	}
	if res.FinalBalance != 1000 {
		t.Fatalf("balance: got %v", res.FinalBalance)
	}
}

func TestRunIsRepeatable(t *testing.T) {
	series := bars(100, 100.6, 95, 130, 122, 140, 139, 150)
	e := NewEngine(defaultConfig(), &strategy.Reversal{ThresholdPct: 0.005})

	first, err := e.Run(series)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := e.Run(series)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.FinalBalance != second.FinalBalance {
		t.Fatalf("balances differ: %v vs %v", first.FinalBalance, second.FinalBalance)
	}
	if len(first.Trades) != len(second.Trades) {
		t.Fatalf("ledgers differ in length: %d vs %d", len(first.Trades), len(second.Trades))
	}
	for i := range first.Trades {
		a, b := first.Trades[i], second.Trades[i]
		// IDs are freshly generated per run; everything else must match.
		a.ID, b.ID = "", ""
		if a != b {
			t.Fatalf("trade %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestLedgerInvariants(t *testing.T) {
	series := bars(100, 100.6, 95, 130, 122, 140, 139, 150, 95, 100, 101, 110)
	res := run(t, defaultConfig(), series)

	if len(res.Trades) == 0 {
		t.Fatalf("scenario should produce trades")
	}

	var prevExit time.Time
	for i, tr := range res.Trades {
		if pl := (tr.ExitPrice - tr.EntryPrice) * tr.Shares; !approxEqual(tr.ProfitLoss, pl, 1e-9) {
			t.Fatalf("trade %d: pl %v != %v", i, tr.ProfitLoss, pl)
		}
		if tr.ExitDate.Before(prevExit) {
			t.Fatalf("trade %d: exit dates not monotonic", i)
		}
		if !tr.ExitDate.After(tr.EntryDate) {
			t.Fatalf("trade %d: exit %v not after entry %v", i, tr.ExitDate, tr.EntryDate)
		}
		prevExit = tr.ExitDate
	}
}

// countingObserver verifies the single-position invariant from the event
// stream: entries and exits must strictly alternate.
type countingObserver struct {
	open    bool
	entries int
	exits   int
	fail    func(string)
}

func (o *countingObserver) OnSignal(SignalEvent) error { return nil }

func (o *countingObserver) OnEntry(ev EntryEvent) error {
	if o.open {
		o.fail("entry while a position is open")
	}
	o.open = true
	o.entries++
	return nil
}

func (o *countingObserver) OnExit(ev ExitEvent) error {
	if !o.open {
		o.fail("exit without an open position")
	}
	o.open = false
	o.exits++
	return nil
}

func (o *countingObserver) OnEquity(EquityEvent) error { return nil }

func TestSinglePositionInvariant(t *testing.T) {
	series := bars(100, 100.6, 95, 130, 122, 140, 139, 150, 95, 100, 101, 110)

	obs := &countingObserver{fail: func(msg string) { t.Fatal(msg) }}
	e := NewEngine(defaultConfig(), &strategy.Reversal{ThresholdPct: 0.005})
	e.SetObserver(obs)

	res, err := e.Run(series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if obs.exits != len(res.Trades) {
		t.Fatalf("exit events %d != ledger entries %d", obs.exits, len(res.Trades))
	}
	wantEntries := len(res.Trades)
	if res.OpenPosition != nil {
		wantEntries++
	}
	if obs.entries != wantEntries {
		t.Fatalf("entry events %d != %d", obs.entries, wantEntries)
	}
}

func TestRejectsInvalidSeries(t *testing.T) {
	e := NewEngine(defaultConfig(), &strategy.Reversal{ThresholdPct: 0.005})

	outOfOrder := market.Series{
		{Time: day(1), Close: 100},
		{Time: day(0), Close: 101},
	}
	if _, err := e.Run(outOfOrder); err == nil {
		t.Fatalf("expected error for out-of-order series")
	}

	duplicate := market.Series{
		{Time: day(0), Close: 100},
		{Time: day(0), Close: 101},
	}
	if _, err := e.Run(duplicate); err == nil {
		t.Fatalf("expected error for duplicate dates")
	}
}

func TestRejectsInvalidConfig(t *testing.T) {
	bad := []Config{
		{InitialBalance: 0, AllocationFraction: 1},
		{InitialBalance: 1000, AllocationFraction: 1.5},
		{InitialBalance: 1000, AllocationFraction: 1, StopLossPct: 1},
		{InitialBalance: 1000, AllocationFraction: 1, TargetPct: -0.1},
		{InitialBalance: 1000, AllocationFraction: 1, Settlement: "bogus"},
	}
	for i, cfg := range bad {
		e := NewEngine(cfg, &strategy.Reversal{ThresholdPct: 0.005})
		if _, err := e.Run(bars(100, 101)); err == nil {
			t.Fatalf("config %d: expected validation error", i)
		}
	}
}
