package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "calspread",
	Short: "A calendar-spread style mean-reversion backtester",
	Long: `Calspread replays historical daily price series through a rule-based
mean-reversion trade simulator and reports the results.

It provides tools for:
  - Backtesting the calendar-spread reversal strategy on daily bars
  - Scanning a series for entry setups without simulating
  - Downloading daily bars from Polygon.io
  - Journaling trades, signals and the equity curve to CSV or SQLite
  - Rendering console and HTML dashboards`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
