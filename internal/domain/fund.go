package domain

import (
	"fmt"
	"math"
)

// Fund es un fondo simulable. Inmutable durante una simulación.
type Fund struct {
	Ticker    string
	Name      string
	ISIN      string
	Mu        float64 // rentabilidad esperada anualizada (drift)
	Sigma     float64 // volatilidad anualizada
	S0        float64 // precio de referencia
	RiskClass int     // clase MiFID 1–5 (0 = sin clasificar)
}

// Validate rechaza parámetros con los que GBM no está definido.
// σ = 0 es válido: el camino es determinista.
func (f Fund) Validate() error {
	if f.Ticker == "" {
		return fmt.Errorf("fund: empty ticker: %w", ErrInvalidParameter)
	}
	if math.IsNaN(f.Mu) || math.IsInf(f.Mu, 0) {
		return fmt.Errorf("fund %s: mu=%v: %w", f.Ticker, f.Mu, ErrInvalidParameter)
	}
	if f.Sigma < 0 || math.IsNaN(f.Sigma) || math.IsInf(f.Sigma, 0) {
		return fmt.Errorf("fund %s: sigma=%v: %w", f.Ticker, f.Sigma, ErrInvalidParameter)
	}
	if !(f.S0 > 0) || math.IsInf(f.S0, 0) {
		return fmt.Errorf("fund %s: s0=%v: %w", f.Ticker, f.S0, ErrInvalidParameter)
	}
	return nil
}

// AllocationEntry es un par (fondo, peso en %).
type AllocationEntry struct {
	Ticker string
	Weight float64 // porcentaje, 0–100
}

// Allocation es la cartera ordenada del contrato.
type Allocation []AllocationEntry

// TotalWeight devuelve la suma de pesos en %.
func (a Allocation) TotalWeight() float64 {
	total := 0.0
	for _, e := range a {
		total += e.Weight
	}
	return total
}

// Tickers devuelve los tickers en el orden de la cartera.
func (a Allocation) Tickers() []string {
	out := make([]string, 0, len(a))
	for _, e := range a {
		out = append(out, e.Ticker)
	}
	return out
}

// ResolvedPosition es una entrada de la cartera con el fondo ya resuelto.
type ResolvedPosition struct {
	Fund   Fund
	Weight float64
}
