package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spreadlab/calspread/indicators"
	"github.com/spreadlab/calspread/market"
	"github.com/spreadlab/calspread/strategy"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Scan a bar series for entry setups without simulating",
	Long: `Signals walks the series with the reversal detector and writes every
detected setup to a CSV, one row per firing bar. No positions are opened
and no balance is tracked.

Example:
  calspread signals --bars data/spy.csv --threshold 0.005 --out setups.csv`,
	RunE: runSignals,
}

var (
	sigBarsPath   string
	sigThreshold  float64
	sigOut        string
	sigIndicators bool
)

func init() {
	rootCmd.AddCommand(signalsCmd)

	signalsCmd.Flags().StringVar(&sigBarsPath, "bars", "", "path to daily bar CSV (required)")
	signalsCmd.Flags().Float64Var(&sigThreshold, "threshold", 0.005, "move threshold (0.005 = 0.5%)")
	signalsCmd.Flags().StringVarP(&sigOut, "out", "o", "", "output CSV path (required)")
	signalsCmd.Flags().BoolVar(&sigIndicators, "indicators", false, "append RSI14 and MACD columns to each setup")

	signalsCmd.MarkFlagRequired("bars")
	signalsCmd.MarkFlagRequired("out")
}

func runSignals(cmd *cobra.Command, args []string) error {
	bars, err := market.LoadCSV(sigBarsPath)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	det := &strategy.Reversal{ThresholdPct: sigThreshold}

	var ann indicators.Annotations
	if sigIndicators {
		if ann, err = indicators.Annotate(bars); err != nil {
			return fmt.Errorf("indicators: %w", err)
		}
	}

	f, err := os.Create(sigOut)
	if err != nil {
		return err
	}
	defer f.Close()

	header := []string{"entry_date", "entry_price", "expected_direction", "price_move_pct"}
	if sigIndicators {
		header = append(header, "rsi_14", "macd")
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}

	count := 0
	for i := 1; i < len(bars); i++ {
		sig := det.Evaluate(bars[i-1], bars[i])
		if !sig.Fired {
			continue
		}
		count++
		row := []string{
			bars[i].Time.UTC().Format("2006-01-02"),
			strconv.FormatFloat(bars[i].Close, 'f', -1, 64),
			sig.Direction,
			strconv.FormatFloat(sig.MovePct*100, 'f', 4, 64),
		}
		if sigIndicators {
			row = append(row,
				strconv.FormatFloat(ann.RSI[i], 'f', 2, 64),
				strconv.FormatFloat(ann.MACD[i], 'f', 4, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	fmt.Printf("Found %d setups in %d bars; saved to %s\n", count, len(bars), sigOut)
	return nil
}
