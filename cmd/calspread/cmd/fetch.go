package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spreadlab/calspread/market"
	"github.com/spreadlab/calspread/polygon"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download daily bars from Polygon.io to a CSV file",
	Long: `Fetch downloads daily aggregate bars for a symbol and writes them as a
date,close CSV that backtest and signals can read.

The API key is read from the POLYGON_API_KEY environment variable, or from
a .env file in the working directory.

Example:
  calspread fetch --symbol SPY --start 2023-01-01 --end 2024-01-01 --out spy.csv`,
	RunE: runFetch,
}

var (
	fetchSymbol string
	fetchStart  string
	fetchEnd    string
	fetchOut    string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchSymbol, "symbol", "s", "", "ticker symbol (required)")
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "start date YYYY-MM-DD (required)")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", time.Now().UTC().Format("2006-01-02"), "end date YYYY-MM-DD")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "output CSV path (required)")

	fetchCmd.MarkFlagRequired("symbol")
	fetchCmd.MarkFlagRequired("start")
	fetchCmd.MarkFlagRequired("out")
}

func runFetch(cmd *cobra.Command, args []string) error {
	// A missing .env is fine; the key may already be in the environment.
	_ = godotenv.Load()

	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("POLYGON_API_KEY is not set")
	}

	from, err := time.Parse("2006-01-02", fetchStart)
	if err != nil {
		return fmt.Errorf("bad --start: %w", err)
	}
	to, err := time.Parse("2006-01-02", fetchEnd)
	if err != nil {
		return fmt.Errorf("bad --end: %w", err)
	}

	client := polygon.NewClient(apiKey)
	bars, err := client.DailyBars(context.Background(), fetchSymbol, from, to)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", fetchSymbol, err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("no data returned for %s", fetchSymbol)
	}

	if err := market.SaveCSV(fetchOut, bars); err != nil {
		return fmt.Errorf("write %s: %w", fetchOut, err)
	}

	fmt.Printf("Wrote %d bars for %s to %s\n", len(bars), fetchSymbol, fetchOut)
	return nil
}
