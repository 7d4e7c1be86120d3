package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spreadlab/calspread/sim"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestSaveAndLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	want := Default()
	want.Account.Balance = 5000
	want.Strategy.AllocationFraction = 0.05
	want.Strategy.Settlement = string(sim.SettlePLOnly)
	require.NoError(t, want.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestSaveAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	want := Default()
	require.NoError(t, want.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero balance", func(c *Config) { c.Account.Balance = 0 }},
		{"negative threshold", func(c *Config) { c.Strategy.MoveThresholdPct = -0.01 }},
		{"allocation above one", func(c *Config) { c.Strategy.AllocationFraction = 1.5 }},
		{"stop loss at one", func(c *Config) { c.Strategy.StopLossPct = 1.0 }},
		{"unknown settlement", func(c *Config) { c.Strategy.Settlement = "margin" }},
		{"unknown data source", func(c *Config) { c.Data.Source = "ftp" }},
		{"csv source without path", func(c *Config) { c.Data.Path = "" }},
		{"polygon source without symbol", func(c *Config) {
			c.Data.Source = "polygon"
			c.Data.Symbol = ""
		}},
		{"polygon bad date", func(c *Config) {
			c.Data.Source = "polygon"
			c.Data.Symbol = "SPY"
			c.Data.Start = "01/02/2024"
		}},
		{"csv journal without files", func(c *Config) { c.Journal.TradesFile = "" }},
		{"sqlite journal without path", func(c *Config) {
			c.Journal.Type = "sqlite"
			c.Journal.DBPath = ""
		}},
		{"unknown journal type", func(c *Config) { c.Journal.Type = "mongo" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSimMapping(t *testing.T) {
	cfg := Default()
	cfg.Account.Balance = 2500
	cfg.Strategy.AllocationFraction = 0.05

	sc := cfg.Sim()
	assert.Equal(t, 2500.0, sc.InitialBalance)
	assert.Equal(t, 0.05, sc.AllocationFraction)
	assert.Equal(t, sim.SettleLiquidation, sc.Settlement)
}
