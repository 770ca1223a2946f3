package domain

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
)

// VaRConfidence es el nivel de confianza del VaR del informe.
const VaRConfidence = 0.95

// PayoutStats son los agregados de la prestación por fallecimiento.
// Derivados y de solo lectura; se recalculan bajo demanda.
type PayoutStats struct {
	Guaranteed float64 // suelo = contribución × nivel
	Mean       float64
	Min        float64
	Max        float64
	VaR        float64 // percentil 5 de los valores finales
	CVaR       float64 // media de los valores finales ≤ VaR
	Draws      int
	FloorHits  int // simulaciones donde el suelo paga más que el fondo
}

// FloorHitRate devuelve la fracción de simulaciones que terminan en el suelo.
func (s PayoutStats) FloorHitRate() float64 {
	if s.Draws == 0 {
		return 0
	}
	return float64(s.FloorHits) / float64(s.Draws)
}

// FanPoint son los percentiles del valor de la cartera en un día dado.
type FanPoint struct {
	Day int
	P5  float64
	P50 float64
	P95 float64
}

// GuaranteeCost es la valoración de la garantía como put europea.
type GuaranteeCost struct {
	PutPrice  float64 // EUR, pago único
	AnnualPct float64 // coste anual equivalente en %
}

// RunResult es el resultado completo de una simulación.
type RunResult struct {
	RunID        string
	Seed         uint64
	StartedAt    time.Time
	Contract     Contract
	Positions    []ResolvedPosition
	Sigma        float64 // volatilidad proxy: Σ peso × σ
	Guarantee    GuaranteeCost
	TotalCostPct float64 // gestión + garantía
	Paths        *mat.Dense
	Stats        PayoutStats
	Fan          []FanPoint

	// Survival es la probabilidad de llegar a la edad objetivo.
	// HasSurvival = false si no se consultó la tabla.
	Survival    float64
	HasSurvival bool
}

// Horizon devuelve las dimensiones de la matriz (días, simulaciones).
func (r RunResult) Horizon() (days, draws int) {
	if r.Paths == nil {
		return 0, 0
	}
	return r.Paths.Dims()
}

// ComparisonEntry es el resultado de un nivel de garantía en la comparación.
type ComparisonEntry struct {
	Level  float64
	Result RunResult
}

// Comparison agrupa una simulación independiente por nivel de garantía.
type Comparison struct {
	RunID   string
	ByLevel map[float64]RunResult

	// Survival es la probabilidad de llegar a la edad objetivo; es la misma
	// para todos los niveles porque solo depende de las edades.
	Survival    float64
	HasSurvival bool
}

// Entries devuelve los niveles ordenados de menor a mayor.
func (c Comparison) Entries() []ComparisonEntry {
	out := make([]ComparisonEntry, 0, len(c.ByLevel))
	for level, res := range c.ByLevel {
		out = append(out, ComparisonEntry{Level: level, Result: res})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}
