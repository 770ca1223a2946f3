package montecarlo_test

import (
	"math"
	"testing"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/alejandrodnm/ulmorte/internal/montecarlo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatePortfolio_UnitsScaling(t *testing.T) {
	positions := []domain.ResolvedPosition{
		{Fund: domain.Fund{Ticker: "A", Mu: 0.03, Sigma: 0, S0: 20}, Weight: 60},
		{Fund: domain.Fund{Ticker: "B", Mu: 0.05, Sigma: 0, S0: 250}, Weight: 40},
	}

	m, sigma, err := montecarlo.AggregatePortfolio(positions, 10_000, 253, 4, panicSource{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sigma)

	// día 0: la cartera vale exactamente lo invertido, sea cual sea S0
	for j := 0; j < 4; j++ {
		assert.InDelta(t, 10_000, m.At(0, j), 1e-9)
	}

	want := 6_000*math.Exp(0.03) + 4_000*math.Exp(0.05)
	assert.InDelta(t, want, m.At(252, 0), 1e-6)
}

func TestAggregatePortfolio_WeightedSigma(t *testing.T) {
	positions := []domain.ResolvedPosition{
		{Fund: domain.Fund{Ticker: "A", Mu: 0.03, Sigma: 0.10, S0: 20}, Weight: 60},
		{Fund: domain.Fund{Ticker: "B", Mu: 0.05, Sigma: 0.20, S0: 250}, Weight: 40},
	}
	assert.InDelta(t, 0.14, montecarlo.WeightedSigma(positions), 1e-12)

	_, sigma, err := montecarlo.AggregatePortfolio(positions, 1_000, 10, 5, montecarlo.NewRand(3))
	require.NoError(t, err)
	assert.InDelta(t, 0.14, sigma, 1e-12)
}

func TestAggregatePortfolio_Errors(t *testing.T) {
	rng := montecarlo.NewRand(1)

	_, _, err := montecarlo.AggregatePortfolio(nil, 1_000, 10, 5, rng)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	pos := []domain.ResolvedPosition{{Fund: bilanciato, Weight: 100}}
	_, _, err = montecarlo.AggregatePortfolio(pos, 0, 10, 5, rng)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	pos[0].Weight = 0
	_, _, err = montecarlo.AggregatePortfolio(pos, 1_000, 10, 5, rng)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}
