package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spreadlab/calspread/config"
	"github.com/spreadlab/calspread/journal"
	"github.com/spreadlab/calspread/market"
	"github.com/spreadlab/calspread/polygon"
	"github.com/spreadlab/calspread/report"
	"github.com/spreadlab/calspread/sim"
	"github.com/spreadlab/calspread/strategy"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a daily bar series through the trade simulator",
	Long: `Backtest runs the mean-reversion simulation over a daily bar CSV,
prints a summary, and optionally journals trades and writes an HTML
dashboard.

Example:
  calspread backtest --bars data/spy.csv --instrument SPY --balance 1000`,
	RunE: runBacktest,
}

var (
	btConfigPath string
	btBarsPath   string
	btInstrument string
	btBalance    float64
	btAlloc      float64
	btThreshold  float64
	btStopPct    float64
	btTargetPct  float64
	btSettlement string
	btDetector   string
	btJournal    string
	btDBPath     string
	btTradesCSV  string
	btSignalsCSV string
	btEquityCSV  string
	btHTMLPath   string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "run config file (YAML or JSON); flags below are ignored when set")
	backtestCmd.Flags().StringVar(&btBarsPath, "bars", "", "path to daily bar CSV (date,close)")
	backtestCmd.Flags().StringVarP(&btInstrument, "instrument", "i", "SPY", "instrument label for journal and report")
	backtestCmd.Flags().Float64VarP(&btBalance, "balance", "b", 1000, "starting cash balance")
	backtestCmd.Flags().Float64Var(&btAlloc, "alloc", 1.0, "fraction of the balance committed per trade, in [0,1]")
	backtestCmd.Flags().Float64Var(&btThreshold, "threshold", 0.005, "entry move threshold (0.005 = 0.5%)")
	backtestCmd.Flags().Float64Var(&btStopPct, "stop", 0.02, "stop loss as fraction of entry price")
	backtestCmd.Flags().Float64Var(&btTargetPct, "target", 0.05, "profit target as fraction of entry price")
	backtestCmd.Flags().StringVar(&btSettlement, "settlement", string(sim.SettleLiquidation), "exit settlement rule (liquidation, pl-only)")
	backtestCmd.Flags().StringVarP(&btDetector, "detector", "s", "reversal", "entry detector (reversal, noop)")
	backtestCmd.Flags().StringVar(&btJournal, "journal", "none", "journal sink (none, csv, sqlite)")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "./backtest.sqlite", "SQLite journal path")
	backtestCmd.Flags().StringVar(&btTradesCSV, "trades-csv", "./trades.csv", "CSV journal: trades file")
	backtestCmd.Flags().StringVar(&btSignalsCSV, "signals-csv", "./signals.csv", "CSV journal: signals file")
	backtestCmd.Flags().StringVar(&btEquityCSV, "equity-csv", "./equity.csv", "CSV journal: equity file")
	backtestCmd.Flags().StringVar(&btHTMLPath, "html", "", "write an HTML dashboard to this path")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := backtestConfig()
	if err != nil {
		return err
	}

	bars, err := loadBars(cfg.Data)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	det, err := strategy.ByName(cfg.Strategy.Detector, cfg.Strategy.MoveThresholdPct)
	if err != nil {
		return fmt.Errorf("detector: %w", err)
	}

	engine := sim.NewEngine(cfg.Sim(), det)
	instrument := instrumentLabel(cfg.Data)

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	if j != nil {
		defer j.Close()
		engine.SetObserver(&journal.Recorder{Journal: j, Instrument: instrument})
	}

	res, err := engine.Run(bars)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	summary := report.Build(instrument, res, bars)
	report.Print(os.Stdout, summary)

	if cfg.Report.HTMLPath != "" {
		if err := report.WriteHTML(cfg.Report.HTMLPath, []report.Summary{summary}); err != nil {
			return fmt.Errorf("write dashboard: %w", err)
		}
		fmt.Printf("Dashboard saved as %s\n", cfg.Report.HTMLPath)
	}

	return nil
}

func backtestConfig() (*config.Config, error) {
	if btConfigPath != "" {
		return config.LoadFromFile(btConfigPath)
	}

	if btBarsPath == "" {
		return nil, fmt.Errorf("either --config or --bars is required")
	}

	cfg := &config.Config{
		Account: config.AccountConfig{Balance: btBalance},
		Strategy: config.StrategyConfig{
			Detector:           btDetector,
			MoveThresholdPct:   btThreshold,
			StopLossPct:        btStopPct,
			TargetPct:          btTargetPct,
			AllocationFraction: btAlloc,
			Settlement:         btSettlement,
		},
		Data: config.DataConfig{Source: "csv", Path: btBarsPath},
		Journal: config.JournalConfig{
			Type:        btJournal,
			TradesFile:  btTradesCSV,
			SignalsFile: btSignalsCSV,
			EquityFile:  btEquityCSV,
			DBPath:      btDBPath,
		},
		Report: config.ReportConfig{HTMLPath: btHTMLPath},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadBars resolves the configured data source to a bar series.
func loadBars(dc config.DataConfig) (market.Series, error) {
	switch dc.Source {
	case "polygon":
		// A missing .env is fine; the key may already be in the environment.
		_ = godotenv.Load()

		apiKey := os.Getenv("POLYGON_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("POLYGON_API_KEY is not set")
		}

		from, to, err := dataRange(dc)
		if err != nil {
			return nil, err
		}
		return polygon.NewClient(apiKey).DailyBars(context.Background(), dc.Symbol, from, to)

	default:
		return market.LoadCSV(dc.Path)
	}
}

func dataRange(dc config.DataConfig) (from, to time.Time, err error) {
	to = time.Now().UTC()
	from = to.AddDate(-1, 0, 0)

	if dc.Start != "" {
		if from, err = time.Parse("2006-01-02", dc.Start); err != nil {
			return from, to, fmt.Errorf("bad data.start: %w", err)
		}
	}
	if dc.End != "" {
		if to, err = time.Parse("2006-01-02", dc.End); err != nil {
			return from, to, fmt.Errorf("bad data.end: %w", err)
		}
	}
	return from, to, nil
}

func instrumentLabel(dc config.DataConfig) string {
	if dc.Symbol != "" {
		return dc.Symbol
	}
	return btInstrument
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.SignalsFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}
