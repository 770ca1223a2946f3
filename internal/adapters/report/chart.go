package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	charts "github.com/vicanso/go-charts/v2"
)

// Chart implementa ports.Reporter escribiendo gráficos PNG.
//   - Report: abanico P5/P50/P95 del valor de la cartera por año.
//   - ReportComparison: mediana por nivel de garantía.
type Chart struct {
	path string
}

// NewChart crea un reporter que escribe el PNG en path.
func NewChart(path string) *Chart {
	return &Chart{path: path}
}

// Report implementa ports.Reporter.
func (c *Chart) Report(_ context.Context, res domain.RunResult) error {
	png, err := RenderFan(res)
	if err != nil {
		return err
	}
	return c.write(png)
}

// ReportComparison implementa ports.Reporter.
func (c *Chart) ReportComparison(_ context.Context, cmp domain.Comparison) error {
	png, err := RenderComparison(cmp)
	if err != nil {
		return err
	}
	return c.write(png)
}

func (c *Chart) write(png []byte) error {
	if err := os.WriteFile(c.path, png, 0o644); err != nil {
		return fmt.Errorf("report.Chart: write %q: %w", c.path, err)
	}
	slog.Info("chart written", "path", c.path, "bytes", len(png))
	return nil
}

// RenderFan dibuja el abanico de percentiles de una simulación.
func RenderFan(res domain.RunResult) ([]byte, error) {
	if len(res.Fan) == 0 {
		return nil, errors.New("report.RenderFan: empty fan")
	}

	p5 := make([]float64, len(res.Fan))
	p50 := make([]float64, len(res.Fan))
	p95 := make([]float64, len(res.Fan))
	floor := make([]float64, len(res.Fan))
	for i, pt := range res.Fan {
		p5[i], p50[i], p95[i] = pt.P5, pt.P50, pt.P95
		floor[i] = res.Stats.Guaranteed
	}

	yMin, yMax := bounds(p5, p95, floor)
	painter, err := charts.LineRender([][]float64{p5, p50, p95, floor},
		charts.TitleTextOptionFunc(
			fmt.Sprintf("Portfolio value • age %d → %d", res.Contract.EntryAge, res.Contract.TargetAge),
			fmt.Sprintf("guarantee %s • %d paths", domain.LevelLabel(res.Contract.Guarantee), res.Contract.Paths),
		),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        ageLabels(res.Contract.EntryAge, res.Fan),
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: splitFor(len(res.Fan)),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: []string{"P5", "P50", "P95", "Guaranteed"}}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("report.RenderFan: %w", err)
	}
	return painter.Bytes()
}

// RenderComparison dibuja la mediana de cada nivel de garantía.
func RenderComparison(cmp domain.Comparison) ([]byte, error) {
	entries := cmp.Entries()
	if len(entries) == 0 || len(entries[0].Result.Fan) == 0 {
		return nil, errors.New("report.RenderComparison: nothing to draw")
	}

	values := make([][]float64, 0, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		series := make([]float64, len(e.Result.Fan))
		for i, pt := range e.Result.Fan {
			series[i] = pt.P50
		}
		values = append(values, series)
		names = append(names, "G "+domain.LevelLabel(e.Level))
	}

	first := entries[0].Result
	yMin, yMax := bounds(values...)
	painter, err := charts.LineRender(values,
		charts.TitleTextOptionFunc("Median portfolio value by guarantee", fmt.Sprintf("%d paths per level", first.Contract.Paths)),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        ageLabels(first.Contract.EntryAge, first.Fan),
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: splitFor(len(first.Fan)),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("report.RenderComparison: %w", err)
	}
	return painter.Bytes()
}

func ageLabels(entryAge int, fan []domain.FanPoint) []string {
	labels := make([]string, len(fan))
	for i, pt := range fan {
		labels[i] = strconv.Itoa(entryAge + pt.Day/domain.TradingDaysPerYear)
	}
	return labels
}

func bounds(series ...[]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	pad := (hi - lo) * 0.05
	if pad < hi*0.002 {
		pad = hi * 0.002
	}
	lo -= pad
	if lo < 0 {
		lo = 0
	}
	return lo, hi + pad
}

func splitFor(n int) int {
	if n > 12 {
		return 12
	}
	if n < 1 {
		return 1
	}
	return n
}
