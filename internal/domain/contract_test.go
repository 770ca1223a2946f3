package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContract() Contract {
	return Contract{
		EntryAge:      38,
		TargetAge:     90,
		Contribution:  10_000,
		Guarantee:     1.0,
		AnnualCostPct: 1.0,
		Paths:         100,
		Allocation: Allocation{
			{Ticker: "MACFX", Weight: 50},
			{Ticker: "AOK", Weight: 50},
		},
	}
}

func TestDaysBetweenAges(t *testing.T) {
	assert.Equal(t, 252, DaysBetweenAges(38, 39))
	assert.Equal(t, 13104, DaysBetweenAges(38, 90))
	assert.Equal(t, 126, DaysBetweenAges(40, 40.5))
}

func TestContract_Horizon(t *testing.T) {
	c := validContract()
	assert.Equal(t, 52.0, c.Years())
	assert.Equal(t, 52*TradingDaysPerYear, c.Horizon())
}

func TestContract_NetContribution(t *testing.T) {
	c := validContract()
	assert.Equal(t, 10_000.0, c.NetContribution())

	c.EntryCostPct = 2
	assert.InDelta(t, 9_800.0, c.NetContribution(), 1e-9)
}

func TestContract_GuaranteedAmount(t *testing.T) {
	c := validContract()
	assert.Equal(t, 10_000.0, c.GuaranteedAmount())
	assert.InDelta(t, 8_000.0, c.WithGuarantee(0.8).GuaranteedAmount(), 1e-9)
	// WithGuarantee no toca el original
	assert.Equal(t, 1.0, c.Guarantee)
}

// --- Validate ---

func TestContract_Validate_OK(t *testing.T) {
	require.NoError(t, validContract().Validate(DefaultGuaranteeLevels()))
}

func TestContract_Validate_ThirdsWithinTolerance(t *testing.T) {
	c := validContract()
	c.Allocation = Allocation{
		{Ticker: "A", Weight: 100.0 / 3},
		{Ticker: "B", Weight: 100.0 / 3},
		{Ticker: "C", Weight: 100.0 / 3},
	}
	assert.NoError(t, c.Validate(nil))
}

func TestContract_Validate_InvalidParameters(t *testing.T) {
	cases := map[string]func(c *Contract){
		"entry age below 18":    func(c *Contract) { c.EntryAge = 17 },
		"target before entry":   func(c *Contract) { c.TargetAge = 30 },
		"target equals entry":   func(c *Contract) { c.TargetAge = c.EntryAge },
		"zero contribution":     func(c *Contract) { c.Contribution = 0 },
		"cost above max":        func(c *Contract) { c.AnnualCostPct = 5.5 },
		"negative cost":         func(c *Contract) { c.AnnualCostPct = -0.1 },
		"entry cost 100":        func(c *Contract) { c.EntryCostPct = 100 },
		"no paths":              func(c *Contract) { c.Paths = 0 },
		"guarantee not offered": func(c *Contract) { c.Guarantee = 0.95 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validContract()
			mutate(&c)
			assert.ErrorIs(t, c.Validate(DefaultGuaranteeLevels()), ErrInvalidParameter)
		})
	}
}

func TestContract_Validate_Allocation(t *testing.T) {
	cases := map[string]Allocation{
		"empty":     {},
		"sum 90":    {{Ticker: "A", Weight: 40}, {Ticker: "B", Weight: 50}},
		"sum 110":   {{Ticker: "A", Weight: 60}, {Ticker: "B", Weight: 50}},
		"zero":      {{Ticker: "A", Weight: 100}, {Ticker: "B", Weight: 0}},
		"duplicate": {{Ticker: "A", Weight: 50}, {Ticker: "A", Weight: 50}},
		"six funds": {{"A", 20}, {"B", 20}, {"C", 20}, {"D", 20}, {"E", 10}, {"F", 10}},
	}
	for name, alloc := range cases {
		t.Run(name, func(t *testing.T) {
			c := validContract()
			c.Allocation = alloc
			assert.ErrorIs(t, c.Validate(nil), ErrAllocation)
		})
	}
}

func TestContract_Validate_NoLevelsRequiresPositiveGuarantee(t *testing.T) {
	c := validContract()
	c.Guarantee = 0.95
	assert.NoError(t, c.Validate(nil))

	c.Guarantee = 0
	assert.ErrorIs(t, c.Validate(nil), ErrInvalidParameter)
}
