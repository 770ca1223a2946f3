package montecarlo

// gbm.go: simulador de caminos de precio bajo movimiento browniano geométrico.
//
// Convención de la matriz: filas = días hábiles, columnas = simulaciones.
// La fila 0 es el día 0 y vale S0; la fila t es el precio tras t pasos diarios.
// El agregador y el coste anual (índice y×252) asumen esta convención.

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"gonum.org/v1/gonum/mat"
)

// DailyStep es Δt en años.
const DailyStep = 1.0 / domain.TradingDaysPerYear

// SimulatePaths genera una matriz [days, paths] de precios GBM para el fondo:
//
//	S[t] = S[t-1] × exp((μ − σ²/2)·Δt + σ·√Δt·Z)
//
// Con σ = 0 el camino es determinista, S[t] = S0 × exp(μ·t/252), y no se
// consumen normales del generador.
func SimulatePaths(f domain.Fund, days, paths int, rng NormalSource) (*mat.Dense, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("montecarlo.SimulatePaths: %w", err)
	}
	if days <= 0 || paths <= 0 {
		return nil, fmt.Errorf("montecarlo.SimulatePaths: shape [%d, %d]: %w", days, paths, domain.ErrInvalidParameter)
	}

	data := make([]float64, days*paths)

	if f.Sigma == 0 {
		for t := 0; t < days; t++ {
			v := f.S0 * math.Exp(f.Mu*float64(t)*DailyStep)
			row := data[t*paths : (t+1)*paths]
			for j := range row {
				row[j] = v
			}
		}
		return mat.NewDense(days, paths, data), nil
	}

	if rng == nil {
		return nil, fmt.Errorf("montecarlo.SimulatePaths: nil random source: %w", domain.ErrInvalidParameter)
	}

	drift := (f.Mu - 0.5*f.Sigma*f.Sigma) * DailyStep
	vol := f.Sigma * math.Sqrt(DailyStep)

	for j := 0; j < paths; j++ {
		data[j] = f.S0
	}
	for t := 1; t < days; t++ {
		prev := data[(t-1)*paths : t*paths]
		cur := data[t*paths : (t+1)*paths]
		for j := range cur {
			cur[j] = prev[j] * math.Exp(drift+vol*rng.NormFloat64())
		}
	}
	return mat.NewDense(days, paths, data), nil
}
