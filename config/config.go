// Package config loads and validates backtest run configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spreadlab/calspread/sim"
)

// Config represents a complete backtest run configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Report   ReportConfig   `json:"report" yaml:"report"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	Balance float64 `json:"balance" yaml:"balance"`
}

// StrategyConfig contains the simulation's scalar parameters.
type StrategyConfig struct {
	Detector           string  `json:"detector" yaml:"detector"`
	MoveThresholdPct   float64 `json:"move_threshold_pct" yaml:"move_threshold_pct"`
	StopLossPct        float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TargetPct          float64 `json:"target_pct" yaml:"target_pct"`
	AllocationFraction float64 `json:"allocation_fraction" yaml:"allocation_fraction"`
	Settlement         string  `json:"settlement" yaml:"settlement"`
}

// DataConfig selects the bar source: a local CSV file or the Polygon API.
type DataConfig struct {
	Source string `json:"source" yaml:"source"` // "csv" or "polygon"
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Start  string `json:"start,omitempty" yaml:"start,omitempty"` // YYYY-MM-DD
	End    string `json:"end,omitempty" yaml:"end,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile  string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	SignalsFile string `json:"signals_file,omitempty" yaml:"signals_file,omitempty"`
	EquityFile  string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ReportConfig contains report output paths.
type ReportConfig struct {
	HTMLPath string `json:"html_path,omitempty" yaml:"html_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err2 := json.Unmarshal(data, cfg); err2 != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (format chosen by extension).
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Sim().Validate(); err != nil {
		return err
	}
	if c.Strategy.MoveThresholdPct < 0 {
		return fmt.Errorf("strategy.move_threshold_pct must be non-negative")
	}

	switch c.Data.Source {
	case "csv":
		if c.Data.Path == "" {
			return fmt.Errorf("data.path required for CSV source")
		}
	case "polygon":
		if c.Data.Symbol == "" {
			return fmt.Errorf("data.symbol required for polygon source")
		}
		for _, d := range []string{c.Data.Start, c.Data.End} {
			if d == "" {
				continue
			}
			if _, err := time.Parse("2006-01-02", d); err != nil {
				return fmt.Errorf("bad data date %q: %w", d, err)
			}
		}
	default:
		return fmt.Errorf("data.source must be 'csv' or 'polygon'")
	}

	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.SignalsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file, signals_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}

	return nil
}

// Sim maps the file configuration onto the engine's config.
func (c *Config) Sim() sim.Config {
	return sim.Config{
		InitialBalance:     c.Account.Balance,
		AllocationFraction: c.Strategy.AllocationFraction,
		StopLossPct:        c.Strategy.StopLossPct,
		TargetPct:          c.Strategy.TargetPct,
		Settlement:         sim.Settlement(c.Strategy.Settlement),
	}
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Balance: 1000,
		},
		Strategy: StrategyConfig{
			Detector:           "reversal",
			MoveThresholdPct:   0.005,
			StopLossPct:        0.02,
			TargetPct:          0.05,
			AllocationFraction: 1.0,
			Settlement:         string(sim.SettleLiquidation),
		},
		Data: DataConfig{
			Source: "csv",
			Path:   "./bars.csv",
		},
		Journal: JournalConfig{
			Type:        "csv",
			TradesFile:  "./trades.csv",
			SignalsFile: "./signals.csv",
			EquityFile:  "./equity.csv",
		},
		Report: ReportConfig{
			HTMLPath: "./dashboard.html",
		},
	}
}
