package montecarlo

import (
	"fmt"
	"math"
	"sort"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Terminal devuelve la última fila de la matriz: un valor por simulación.
func Terminal(paths mat.Matrix) []float64 {
	rows, _ := paths.Dims()
	if rows == 0 {
		return nil
	}
	return mat.Row(nil, rows-1, paths)
}

// EndValues aplica el suelo garantizado a cada valor final.
func EndValues(terminal []float64, guaranteed float64) []float64 {
	out := make([]float64, len(terminal))
	for i, v := range terminal {
		out[i] = math.Max(v, guaranteed)
	}
	return out
}

// ComputePayoutStats calcula los agregados de la prestación sobre los
// valores finales del fondo y el suelo garantizado.
//
// VaR es el percentil 5 de los valores finales con suelo, interpolado
// linealmente entre observaciones; CVaR la media de los que quedan en o por
// debajo del VaR. El mínimo siempre entra en la cola.
func ComputePayoutStats(terminal []float64, guaranteed float64) (domain.PayoutStats, error) {
	if len(terminal) == 0 {
		return domain.PayoutStats{}, fmt.Errorf("montecarlo.ComputePayoutStats: no draws: %w", domain.ErrInvalidParameter)
	}

	end := EndValues(terminal, guaranteed)
	for _, v := range end {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.PayoutStats{}, fmt.Errorf("montecarlo.ComputePayoutStats: non-finite end value: %w", domain.ErrInvalidParameter)
		}
	}
	sort.Float64s(end)

	floorHits := 0
	for _, v := range terminal {
		if v < guaranteed {
			floorHits++
		}
	}

	tail := 1 - domain.VaRConfidence
	varValue := Percentile(end, tail)

	var tailSum float64
	var tailN int
	for _, v := range end {
		if v > varValue {
			break
		}
		tailSum += v
		tailN++
	}

	return domain.PayoutStats{
		Guaranteed: guaranteed,
		Mean:       stat.Mean(end, nil),
		Min:        floats.Min(end),
		Max:        floats.Max(end),
		VaR:        varValue,
		CVaR:       tailSum / float64(tailN),
		Draws:      len(end),
		FloorHits:  floorHits,
	}, nil
}

// PercentileFan devuelve P5/P50/P95 del valor de la cartera cada stepDays
// días, más el último día. Sirve para el gráfico del informe.
func PercentileFan(paths mat.Matrix, stepDays int) []domain.FanPoint {
	rows, cols := paths.Dims()
	if rows == 0 || cols == 0 {
		return nil
	}
	if stepDays <= 0 {
		stepDays = domain.TradingDaysPerYear
	}

	var fan []domain.FanPoint
	row := make([]float64, cols)
	add := func(day int) {
		mat.Row(row, day, paths)
		sort.Float64s(row)
		fan = append(fan, domain.FanPoint{
			Day: day,
			P5:  Percentile(row, 0.05),
			P50: Percentile(row, 0.50),
			P95: Percentile(row, 0.95),
		})
	}
	for day := 0; day < rows; day += stepDays {
		add(day)
	}
	if (rows-1)%stepDays != 0 {
		add(rows - 1)
	}
	return fan
}

// Percentile devuelve el cuantil p de sorted (orden ascendente) con
// interpolación lineal entre rangos: h = (n−1)·p,
//
//	q = x[⌊h⌋] + (h − ⌊h⌋)·(x[⌊h⌋+1] − x[⌊h⌋])
//
// Con n = 0 devuelve NaN.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	if h <= 0 {
		return sorted[0]
	}
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
