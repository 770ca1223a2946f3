package montecarlo

import (
	"fmt"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"gonum.org/v1/gonum/mat"
)

// AggregatePortfolio simula cada fondo y suma el valor de las posiciones.
//
// Por fondo: participaciones = netContribution × peso/100 / S0, y el camino
// de valor es precio × participaciones. Los pesos no se renormalizan: que
// sumen 100 es precondición del caller.
//
// Devuelve la matriz de la cartera [days, paths] y la volatilidad proxy.
func AggregatePortfolio(
	positions []domain.ResolvedPosition,
	netContribution float64,
	days, paths int,
	rng NormalSource,
) (*mat.Dense, float64, error) {
	if len(positions) == 0 {
		return nil, 0, fmt.Errorf("montecarlo.AggregatePortfolio: no positions: %w", domain.ErrInvalidParameter)
	}
	if !(netContribution > 0) {
		return nil, 0, fmt.Errorf("montecarlo.AggregatePortfolio: contribution %v: %w", netContribution, domain.ErrInvalidParameter)
	}

	var total *mat.Dense
	for _, pos := range positions {
		if pos.Weight <= 0 {
			return nil, 0, fmt.Errorf("montecarlo.AggregatePortfolio: fund %s weight %v: %w",
				pos.Fund.Ticker, pos.Weight, domain.ErrInvalidParameter)
		}

		prices, err := SimulatePaths(pos.Fund, days, paths, rng)
		if err != nil {
			return nil, 0, err
		}

		units := netContribution * (pos.Weight / 100) / pos.Fund.S0
		prices.Scale(units, prices)

		if total == nil {
			total = prices
			continue
		}
		total.Add(total, prices)
	}

	return total, WeightedSigma(positions), nil
}

// WeightedSigma es la volatilidad de titular de la cartera: Σ peso/100 × σ.
// Trata los fondos como no correlacionados y no es una varianza de cartera.
func WeightedSigma(positions []domain.ResolvedPosition) float64 {
	sigma := 0.0
	for _, pos := range positions {
		sigma += pos.Fund.Sigma * (pos.Weight / 100)
	}
	return sigma
}
