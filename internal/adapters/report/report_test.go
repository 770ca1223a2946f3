package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alejandrodnm/ulmorte/internal/adapters/report"
	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func makeResult(level float64) domain.RunResult {
	c := domain.Contract{
		EntryAge:      38,
		TargetAge:     40,
		Contribution:  10_000,
		Guarantee:     level,
		AnnualCostPct: 1,
		Paths:         2,
		Allocation:    domain.Allocation{{Ticker: "MACFX", Weight: 100}},
	}
	return domain.RunResult{
		RunID:    "0123456789abcdef",
		Seed:     42,
		Contract: c,
		Positions: []domain.ResolvedPosition{{
			Fund:   domain.Fund{Ticker: "MACFX", Name: "MFS Conservative Allocation Fund", Mu: 0.045, Sigma: 0.085, S0: 17.2},
			Weight: 100,
		}},
		Sigma:        0.085,
		Guarantee:    domain.GuaranteeCost{PutPrice: 250, AnnualPct: 0.15 * level},
		TotalCostPct: 1 + 0.15*level,
		Paths:        mat.NewDense(504, 2, nil),
		Stats: domain.PayoutStats{
			Guaranteed: 10_000 * level,
			Mean:       11_234.567,
			Min:        10_000 * level,
			Max:        12_500,
			VaR:        10_100,
			CVaR:       10_050,
			Draws:      2,
			FloorHits:  1,
		},
		Fan: []domain.FanPoint{
			{Day: 0, P5: 10_000, P50: 10_000, P95: 10_000},
			{Day: 252, P5: 9_500, P50: 10_400, P95: 11_300},
			{Day: 503, P5: 9_300, P50: 10_800, P95: 12_500},
		},
		Survival:    0.9876,
		HasSurvival: true,
	}
}

func TestConsole_Report(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf, "€", false)

	require.NoError(t, c.Report(context.Background(), makeResult(1.0)))
	out := buf.String()

	assert.Contains(t, out, "run 01234567, seed 42")
	assert.Contains(t, out, "10.000,00 €")
	assert.Contains(t, out, "11.234,57 €")
	assert.Contains(t, out, "MACFX")
	assert.Contains(t, out, "98.76%")
	assert.Contains(t, out, "Total:           1.15%")
}

func TestConsole_ReportCompact(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf, "€", true)

	require.NoError(t, c.Report(context.Background(), makeResult(0.9)))
	out := buf.String()

	assert.Contains(t, out, "[01234567]")
	assert.Contains(t, out, "38→40")
	assert.Contains(t, out, "G:90%")
	assert.Contains(t, out, "surv:98.76%")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestConsole_ReportComparison(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf, "€", false)

	cmp := domain.Comparison{
		RunID: "fedcba9876543210",
		ByLevel: map[float64]domain.RunResult{
			1.0: makeResult(1.0),
			0.8: makeResult(0.8),
		},
	}
	require.NoError(t, c.ReportComparison(context.Background(), cmp))
	out := buf.String()

	assert.Contains(t, out, "GUARANTEE COMPARISON (run fedcba98)")
	assert.Contains(t, out, "8.000,00 €")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("80%")), bytes.Index(buf.Bytes(), []byte("100%")))
}

func TestConsole_ReportComparisonSurvival(t *testing.T) {
	cmp := domain.Comparison{ByLevel: map[float64]domain.RunResult{1.0: makeResult(1.0)}}

	var without bytes.Buffer
	require.NoError(t, report.NewConsoleWriter(&without, "€", false).ReportComparison(context.Background(), cmp))
	assert.NotContains(t, without.String(), "P(reach")

	cmp.Survival = 0.9876
	cmp.HasSurvival = true
	var with bytes.Buffer
	require.NoError(t, report.NewConsoleWriter(&with, "€", false).ReportComparison(context.Background(), cmp))
	assert.Contains(t, with.String(), "P(reach 40): 98.76%")
}

func TestConsole_ReportComparisonEmpty(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf, "", false)
	require.NoError(t, c.ReportComparison(context.Background(), domain.Comparison{}))
	assert.Contains(t, buf.String(), "no guarantee levels")
}

// --- charts ---

func TestRenderFan(t *testing.T) {
	png, err := report.RenderFan(makeResult(1.0))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestRenderFan_Empty(t *testing.T) {
	_, err := report.RenderFan(domain.RunResult{})
	assert.Error(t, err)
}

func TestChart_ReportComparisonWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmp.png")
	cmp := domain.Comparison{ByLevel: map[float64]domain.RunResult{
		0.8: makeResult(0.8),
		1.0: makeResult(1.0),
	}}

	require.NoError(t, report.NewChart(path).ReportComparison(context.Background(), cmp))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
