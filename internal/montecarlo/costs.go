package montecarlo

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"gonum.org/v1/gonum/mat"
)

// ApplyAnnualCosts devuelve una copia de la matriz con el coste anual aplicado
// en cada aniversario: para cada año y con y×252 < filas, las filas desde
// y×252 se multiplican por (1 − totalCostPct/100). Los factores se componen,
// así que tras el año k el valor lleva (1 − c)^k. La entrada no se modifica.
func ApplyAnnualCosts(paths mat.Matrix, totalCostPct float64) (*mat.Dense, error) {
	if math.IsNaN(totalCostPct) || totalCostPct >= 100 {
		return nil, fmt.Errorf("montecarlo.ApplyAnnualCosts: cost %v%%: %w", totalCostPct, domain.ErrInvalidParameter)
	}

	out := mat.DenseCopyOf(paths)
	if totalCostPct <= 0 {
		return out, nil
	}

	rows, _ := out.Dims()
	factor := 1 - totalCostPct/100
	for year := 1; year*domain.TradingDaysPerYear < rows; year++ {
		for r := year * domain.TradingDaysPerYear; r < rows; r++ {
			row := out.RawRowView(r)
			for j := range row {
				row[j] *= factor
			}
		}
	}
	return out, nil
}
