package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGuaranteeLevel(t *testing.T) {
	for in, want := range map[string]float64{
		"90%":   0.9,
		" 80% ": 0.8,
		"100":   1.0,
		"0.9":   0.9,
		"1":     1.0,
	} {
		got, err := ParseGuaranteeLevel(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-12, in)
	}
}

func TestParseGuaranteeLevel_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "0", "-10%"} {
		_, err := ParseGuaranteeLevel(in)
		assert.ErrorIs(t, err, ErrInvalidParameter, in)
	}
}

func TestFindGuaranteeLevel(t *testing.T) {
	l, ok := FindGuaranteeLevel(DefaultGuaranteeLevels(), 0.9)
	require.True(t, ok)
	assert.Equal(t, "90%", l.Label)

	_, ok = FindGuaranteeLevel(DefaultGuaranteeLevels(), 0.85)
	assert.False(t, ok)
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "80%", LevelLabel(0.8))
	assert.Equal(t, "100%", LevelLabel(1))
}
