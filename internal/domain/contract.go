package domain

import (
	"fmt"
	"math"
)

const (
	// TradingDaysPerYear es la única convención de días hábiles del motor.
	TradingDaysPerYear = 252

	MinEntryAge      = 18
	MaxAnnualCostPct = 5.0
	MaxFunds         = 5

	// weightTolerance absorbe el ruido de float al sumar pesos tipo 33.3.
	weightTolerance = 1e-9
)

// DaysBetweenAges devuelve los días hábiles entre dos edades.
func DaysBetweenAges(fromAge, toAge float64) int {
	return int((toAge - fromAge) * TradingDaysPerYear)
}

// Contract son los parámetros del contrato que entrega el colaborador de input.
type Contract struct {
	EntryAge      int
	TargetAge     int     // edad de fallecimiento planificada
	Contribution  float64 // prima única en EUR
	Guarantee     float64 // fracción de la prima garantizada (1.0 = 100%)
	AnnualCostPct float64 // costes de gestión anuales en %
	EntryCostPct  float64 // costes de entrada sobre la prima, en %
	Paths         int     // número de simulaciones Monte Carlo
	Allocation    Allocation
}

// Years devuelve la duración del contrato en años.
func (c Contract) Years() float64 {
	return float64(c.TargetAge - c.EntryAge)
}

// Horizon devuelve la duración de la simulación en días hábiles.
func (c Contract) Horizon() int {
	return DaysBetweenAges(float64(c.EntryAge), float64(c.TargetAge))
}

// NetContribution descuenta los costes de entrada de la prima.
func (c Contract) NetContribution() float64 {
	return c.Contribution * (1 - c.EntryCostPct/100)
}

// GuaranteedAmount devuelve el suelo garantizado para el nivel del contrato.
func (c Contract) GuaranteedAmount() float64 {
	return GuaranteedAmount(c.Contribution, c.Guarantee)
}

// WithGuarantee devuelve una copia del contrato con otro nivel de garantía.
func (c Contract) WithGuarantee(level float64) Contract {
	c.Guarantee = level
	return c
}

// GuaranteedAmount = contribución × nivel.
func GuaranteedAmount(contribution, level float64) float64 {
	return contribution * level
}

// Validate aplica las reglas del colaborador de input. El motor no las
// vuelve a comprobar: es precondición de engine.Run.
func (c Contract) Validate(levels []GuaranteeLevel) error {
	if c.EntryAge < MinEntryAge {
		return fmt.Errorf("contract: entry age %d < %d: %w", c.EntryAge, MinEntryAge, ErrInvalidParameter)
	}
	if c.TargetAge <= c.EntryAge {
		return fmt.Errorf("contract: target age %d <= entry age %d: %w", c.TargetAge, c.EntryAge, ErrInvalidParameter)
	}
	if !(c.Contribution > 0) || math.IsInf(c.Contribution, 0) {
		return fmt.Errorf("contract: contribution %v: %w", c.Contribution, ErrInvalidParameter)
	}
	if c.AnnualCostPct < 0 || c.AnnualCostPct > MaxAnnualCostPct {
		return fmt.Errorf("contract: annual cost %.2f%% outside [0, %.0f]: %w", c.AnnualCostPct, MaxAnnualCostPct, ErrInvalidParameter)
	}
	if c.EntryCostPct < 0 || c.EntryCostPct >= 100 {
		return fmt.Errorf("contract: entry cost %.2f%%: %w", c.EntryCostPct, ErrInvalidParameter)
	}
	if c.Paths <= 0 {
		return fmt.Errorf("contract: paths %d: %w", c.Paths, ErrInvalidParameter)
	}
	if len(levels) > 0 {
		if _, ok := FindGuaranteeLevel(levels, c.Guarantee); !ok {
			return fmt.Errorf("contract: guarantee %.2f not offered: %w", c.Guarantee, ErrInvalidParameter)
		}
	} else if !(c.Guarantee > 0) {
		return fmt.Errorf("contract: guarantee %v: %w", c.Guarantee, ErrInvalidParameter)
	}
	return c.validateAllocation()
}

func (c Contract) validateAllocation() error {
	if len(c.Allocation) == 0 {
		return fmt.Errorf("contract: empty allocation: %w", ErrAllocation)
	}
	if len(c.Allocation) > MaxFunds {
		return fmt.Errorf("contract: %d funds, max %d: %w", len(c.Allocation), MaxFunds, ErrAllocation)
	}
	seen := make(map[string]bool, len(c.Allocation))
	for _, e := range c.Allocation {
		if e.Weight <= 0 {
			return fmt.Errorf("contract: fund %s weight %.2f: %w", e.Ticker, e.Weight, ErrAllocation)
		}
		if seen[e.Ticker] {
			return fmt.Errorf("contract: fund %s listed twice: %w", e.Ticker, ErrAllocation)
		}
		seen[e.Ticker] = true
	}
	if total := c.Allocation.TotalWeight(); math.Abs(total-100) > weightTolerance {
		return fmt.Errorf("contract: weights sum to %.2f: %w", total, ErrAllocation)
	}
	return nil
}
