package montecarlo_test

import (
	"math"
	"testing"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/alejandrodnm/ulmorte/internal/montecarlo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var bilanciato = domain.Fund{Ticker: "BIL", Mu: 0.04, Sigma: 0.12, S0: 100}

// panicSource falla si alguien pide normales: σ = 0 no debe consumirlas.
type panicSource struct{}

func (panicSource) NormFloat64() float64 { panic("unexpected draw") }

func TestSimulatePaths_Shape(t *testing.T) {
	m, err := montecarlo.SimulatePaths(bilanciato, 252, 50, montecarlo.NewRand(1))
	require.NoError(t, err)

	rows, cols := m.Dims()
	assert.Equal(t, 252, rows)
	assert.Equal(t, 50, cols)

	for j := 0; j < cols; j++ {
		assert.Equal(t, 100.0, m.At(0, j), "row 0 is S0")
	}
}

func TestSimulatePaths_StrictlyPositive(t *testing.T) {
	volatile := domain.Fund{Ticker: "VOL", Mu: -0.2, Sigma: 0.9, S0: 1}
	m, err := montecarlo.SimulatePaths(volatile, 2520, 20, montecarlo.NewRand(7))
	require.NoError(t, err)

	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			require.True(t, v > 0 && !math.IsInf(v, 0), "S[%d,%d]=%v", i, j, v)
		}
	}
}

func TestSimulatePaths_ZeroSigmaIsDeterministic(t *testing.T) {
	flat := domain.Fund{Ticker: "FLAT", Mu: 0.05, Sigma: 0, S0: 100}
	m, err := montecarlo.SimulatePaths(flat, 505, 3, panicSource{})
	require.NoError(t, err)

	for _, day := range []int{0, 1, 252, 504} {
		want := 100 * math.Exp(0.05*float64(day)/252)
		for j := 0; j < 3; j++ {
			assert.InDelta(t, want, m.At(day, j), 1e-9, "day %d", day)
		}
	}
}

func TestSimulatePaths_SameSeedSameMatrix(t *testing.T) {
	a, err := montecarlo.SimulatePaths(bilanciato, 300, 10, montecarlo.NewRand(42))
	require.NoError(t, err)
	b, err := montecarlo.SimulatePaths(bilanciato, 300, 10, montecarlo.NewRand(42))
	require.NoError(t, err)
	c, err := montecarlo.SimulatePaths(bilanciato, 300, 10, montecarlo.NewRand(43))
	require.NoError(t, err)

	assert.True(t, mat.Equal(a, b))
	assert.False(t, mat.Equal(a, c))
}

func TestSimulatePaths_InvalidInputs(t *testing.T) {
	rng := montecarlo.NewRand(1)

	_, err := montecarlo.SimulatePaths(bilanciato, 0, 10, rng)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = montecarlo.SimulatePaths(bilanciato, 10, 0, rng)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	bad := bilanciato
	bad.Sigma = -0.1
	_, err = montecarlo.SimulatePaths(bad, 10, 10, rng)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = montecarlo.SimulatePaths(bilanciato, 10, 10, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestSimulatePaths_DriftMatchesExpectation(t *testing.T) {
	// E[S_T] = S0·e^(μT); con 4000 caminos a un año la media cae cerca.
	m, err := montecarlo.SimulatePaths(bilanciato, 253, 4000, montecarlo.NewRand(2024))
	require.NoError(t, err)

	terminal := montecarlo.Terminal(m)
	mean := 0.0
	for _, v := range terminal {
		mean += v
	}
	mean /= float64(len(terminal))

	assert.InDelta(t, 100*math.Exp(0.04), mean, 1.5)
}
