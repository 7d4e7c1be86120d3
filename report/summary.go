// Package report renders simulation results as console text and HTML.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/spreadlab/calspread/market"
	"github.com/spreadlab/calspread/sim"
)

// Summary is a lightweight digest of one backtest run.
type Summary struct {
	Instrument string
	Start      time.Time
	End        time.Time

	StartBalance float64
	EndBalance   float64
	NetPL        float64
	ReturnPct    float64

	Trades int
	Wins   int
	Losses int

	WinRate      float64 // fraction in [0,1]
	ProfitFactor float64 // 0 when there are no losing trades

	// BuyHoldBalance is what the starting balance would have become held
	// as a single position from the first close to the last.
	BuyHoldBalance float64
	BuyHoldPL      float64

	Ledger []sim.Trade
	Open   *sim.Position
}

// Build computes the summary for a run over the bars it replayed.
func Build(instrument string, res sim.Result, bars market.Series) Summary {
	s := Summary{
		Instrument:   instrument,
		StartBalance: res.InitialBalance,
		EndBalance:   res.FinalBalance,
		NetPL:        res.NetPL(),
		Trades:       len(res.Trades),
		Ledger:       res.Trades,
		Open:         res.OpenPosition,
	}

	if len(bars) > 0 {
		s.Start = bars[0].Time
		s.End = bars[len(bars)-1].Time
		s.BuyHoldBalance = res.InitialBalance * bars[len(bars)-1].Close / bars[0].Close
		s.BuyHoldPL = s.BuyHoldBalance - res.InitialBalance
	}

	var grossProfit, grossLoss float64
	for _, t := range res.Trades {
		if t.ProfitLoss >= 0 {
			s.Wins++
			grossProfit += t.ProfitLoss
		} else {
			s.Losses++
			grossLoss -= t.ProfitLoss
		}
	}
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades)
	}
	if grossLoss > 0 {
		s.ProfitFactor = grossProfit / grossLoss
	}
	if res.InitialBalance > 0 {
		s.ReturnPct = (res.FinalBalance - res.InitialBalance) / res.InitialBalance * 100
	}

	return s
}

// Print writes the console summary.
func Print(w io.Writer, s Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Instrument:    %s\n", s.Instrument)
	if !s.Start.IsZero() {
		fmt.Fprintf(w, "Period:        %s -> %s\n",
			s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %.2f\n", s.StartBalance)
	fmt.Fprintf(w, "End Balance:   %.2f\n", s.EndBalance)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", s.NetPL)
	fmt.Fprintf(w, "Return:        %.2f%%\n", s.ReturnPct)
	fmt.Fprintf(w, "Buy & Hold:    %.2f (P/L %.2f)\n", s.BuyHoldBalance, s.BuyHoldPL)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", s.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRate*100)
	if s.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", s.ProfitFactor)
	}

	if s.Open != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Open Position (unrealized)")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Entered:       %s at %.2f\n",
			s.Open.EntryDate.Format("2006-01-02"), s.Open.EntryPrice)
		fmt.Fprintf(w, "Latest Price:  %.2f\n", s.Open.LatestPrice)
		fmt.Fprintf(w, "Unrealized:    %.2f\n", s.Open.ProfitLoss)
	}

	fmt.Fprintln(w)
}
