package pricing

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultRiskFreeRate es el tipo libre de riesgo anual por defecto.
const DefaultRiskFreeRate = 0.01

// PutPrice valora una put europea con Black-Scholes:
//
//	d1  = (ln(S0/K) + (r + σ²/2)·T) / (σ√T)
//	d2  = d1 − σ√T
//	put = K·e^(−rT)·Φ(−d2) − S0·Φ(−d1)
//
// Con T ≤ 0 o σ ≤ 0 no hay valor temporal y devuelve el intrínseco
// max(K − S0, 0). El resultado nunca es negativo.
func PutPrice(s0, strike, t, sigma, r float64) (float64, error) {
	if !(s0 > 0) || !(strike > 0) {
		return 0, fmt.Errorf("pricing.PutPrice: s0=%v strike=%v: %w", s0, strike, domain.ErrInvalidParameter)
	}
	if math.IsNaN(t) || math.IsNaN(sigma) || math.IsNaN(r) {
		return 0, fmt.Errorf("pricing.PutPrice: NaN input: %w", domain.ErrInvalidParameter)
	}

	if t <= 0 || sigma <= 0 {
		return math.Max(strike-s0, 0), nil
	}

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s0/strike) + (r+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	put := strike*math.Exp(-r*t)*distuv.UnitNormal.CDF(-d2) - s0*distuv.UnitNormal.CDF(-d1)
	return math.Max(put, 0), nil
}

// GuaranteeCost valora la garantía del contrato como una put con
// strike = contribución × nivel y subyacente = contribución, y la reparte
// linealmente en los T años del contrato:
//
//	annualPct = put / contribución × 1/T × 100
//
// Es una aproximación, no un calendario de amortización. Con T ≤ 0 el
// coste anual es 0 (no hay años sobre los que repartir).
func GuaranteeCost(contribution, level, t, sigma, r float64) (domain.GuaranteeCost, error) {
	if !(contribution > 0) {
		return domain.GuaranteeCost{}, fmt.Errorf("pricing.GuaranteeCost: contribution %v: %w", contribution, domain.ErrInvalidParameter)
	}
	if !(level > 0) {
		return domain.GuaranteeCost{}, fmt.Errorf("pricing.GuaranteeCost: level %v: %w", level, domain.ErrInvalidParameter)
	}

	put, err := PutPrice(contribution, domain.GuaranteedAmount(contribution, level), t, sigma, r)
	if err != nil {
		return domain.GuaranteeCost{}, fmt.Errorf("pricing.GuaranteeCost: %w", err)
	}

	cost := domain.GuaranteeCost{PutPrice: put}
	if t > 0 {
		cost.AnnualPct = (put / contribution) * (1 / t) * 100
	}
	return cost, nil
}
