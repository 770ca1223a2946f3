package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "contract:\n  allocation:\n    - ticker: AOK\n      weight: 100\n"))
	require.NoError(t, err)

	assert.Equal(t, 38, cfg.Contract.EntryAge)
	assert.Equal(t, 90, cfg.Contract.TargetAge)
	assert.Equal(t, 10_000.0, cfg.Contract.Contribution)
	assert.Equal(t, "100%", cfg.Contract.Guarantee)
	assert.Equal(t, 100, cfg.Simulation.Paths)
	require.NotNil(t, cfg.Simulation.RiskFreeRate)
	assert.Equal(t, 0.01, *cfg.Simulation.RiskFreeRate)
	assert.Equal(t, domain.TradingDaysPerYear, cfg.Simulation.FanStepDays)
	assert.Equal(t, "data/funds.yaml", cfg.Catalog.FundsPath)
	assert.Equal(t, "€", cfg.Report.Currency)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_ZeroRiskFreeRateKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, "simulation:\n  risk_free_rate: 0\n"))
	require.NoError(t, err)

	require.NotNil(t, cfg.Simulation.RiskFreeRate)
	assert.Equal(t, 0.0, *cfg.Simulation.RiskFreeRate)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("ULMORTE_DSN", "ulmorte.db")
	t.Setenv("ULMORTE_SEED", "1234")

	cfg, err := Load(writeConfig(t, "log:\n  level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "ulmorte.db", cfg.Storage.DSN)
	assert.Equal(t, uint64(1234), cfg.Simulation.Seed)
}

func TestLoad_BadSeed(t *testing.T) {
	t.Setenv("ULMORTE_SEED", "abc")
	_, err := Load(writeConfig(t, "{}\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestToContract(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
contract:
  entry_age: 45
  target_age: 85
  contribution: 50000
  guarantee: "90%"
  annual_cost_pct: 1.5
  allocation:
    - ticker: MACFX
      weight: 60
    - ticker: AOK
      weight: 40
simulation:
  paths: 250
  compare_levels: ["80", "1.0"]
`))
	require.NoError(t, err)

	c, err := cfg.ToContract()
	require.NoError(t, err)
	assert.Equal(t, 45, c.EntryAge)
	assert.Equal(t, 0.9, c.Guarantee)
	assert.Equal(t, 250, c.Paths)
	assert.Equal(t, domain.Allocation{{Ticker: "MACFX", Weight: 60}, {Ticker: "AOK", Weight: 40}}, c.Allocation)
	require.NoError(t, c.Validate(domain.DefaultGuaranteeLevels()))

	levels, err := cfg.CompareLevels()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.8, 1.0}, levels)
}

func TestToContract_BadGuarantee(t *testing.T) {
	cfg, err := Load(writeConfig(t, "contract:\n  guarantee: lots\n"))
	require.NoError(t, err)
	_, err = cfg.ToContract()
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load("config.yaml")
	require.NoError(t, err)
	c, err := cfg.ToContract()
	require.NoError(t, err)
	assert.NoError(t, c.Validate(domain.DefaultGuaranteeLevels()))
}
