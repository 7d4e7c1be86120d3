package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSVJournal writes each record stream to its own CSV file. Rows are
// flushed as they are written so a crashed run still leaves a usable file.
type CSVJournal struct {
	trades  *csv.Writer
	signals *csv.Writer
	equity  *csv.Writer

	files []*os.File
}

func NewCSV(tradesPath, signalsPath, equityPath string) (*CSVJournal, error) {
	j := &CSVJournal{}

	open := func(path string, header []string) (*csv.Writer, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		j.files = append(j.files, f)

		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			return nil, err
		}
		w.Flush()
		return w, w.Error()
	}

	var err error
	if j.trades, err = open(tradesPath, []string{
		"trade_id", "instrument", "entry_date", "entry_price", "shares",
		"cost", "direction", "exit_date", "exit_price", "realized_pl", "reason",
	}); err != nil {
		return nil, err
	}
	if j.signals, err = open(signalsPath, []string{
		"time", "instrument", "direction", "move_pct",
	}); err != nil {
		return nil, err
	}
	if j.equity, err = open(equityPath, []string{
		"time", "balance", "equity",
	}); err != nil {
		return nil, err
	}

	return j, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.TradeID,
		t.Instrument,
		t.EntryDate.UTC().Format(time.RFC3339),
		f(t.EntryPrice),
		f(t.Shares),
		f(t.Cost),
		t.Direction,
		t.ExitDate.UTC().Format(time.RFC3339),
		f(t.ExitPrice),
		f(t.RealizedPL),
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordSignal(s SignalRecord) error {
	err := j.signals.Write([]string{
		s.Time.UTC().Format(time.RFC3339),
		s.Instrument,
		s.Direction,
		f(s.MovePct),
	})
	if err != nil {
		return err
	}
	j.signals.Flush()
	return j.signals.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	err := j.equity.Write([]string{
		e.Time.UTC().Format(time.RFC3339),
		f(e.Balance),
		f(e.Equity),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	for _, w := range []*csv.Writer{j.trades, j.signals, j.equity} {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
	}
	for _, f := range j.files {
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
