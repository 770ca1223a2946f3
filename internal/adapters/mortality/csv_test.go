package mortality_test

import (
	"context"
	"strings"
	"testing"

	"github.com/alejandrodnm/ulmorte/internal/adapters/mortality"
	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ISTATFormat(t *testing.T) {
	in := "\ufeffEta;Probabilita_sopravvivenza\n38;0,980000\n90;0,196000\n"
	table, err := mortality.Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	p, ok := table.Survival(90)
	require.True(t, ok)
	assert.Equal(t, 0.196, p)
}

func TestParse_CommaSeparated(t *testing.T) {
	in := "age,survival\n0,1.0\n1,0.997\n"
	table, err := mortality.Parse(strings.NewReader(in))
	require.NoError(t, err)

	p, _ := table.Survival(1)
	assert.Equal(t, 0.997, p)
}

func TestParse_SemicolonThousandsSeparator(t *testing.T) {
	// 850 no lleva separador; 100.000 sí y debe leerse como cien mil
	in := "x;lx\n0;100.000\n50;95.000\n100;850\n"
	table, err := mortality.Parse(strings.NewReader(in))
	require.NoError(t, err)

	p, _ := table.Survival(50)
	assert.InDelta(t, 0.95, p, 1e-12)
	p, _ = table.Survival(100)
	assert.InDelta(t, 0.0085, p, 1e-12)
}

func TestParse_SemicolonDecimalComma(t *testing.T) {
	in := "eta;sopravvivenza\n0;1,000000\n60;0,910000\n"
	table, err := mortality.Parse(strings.NewReader(in))
	require.NoError(t, err)

	p, _ := table.Survival(60)
	assert.InDelta(t, 0.91, p, 1e-12)
}

func TestParse_LxNormalized(t *testing.T) {
	in := "x;lx\n0;100.000\n50;95.000\n90;20.000\n"
	table, err := mortality.Parse(strings.NewReader(in))
	require.NoError(t, err)

	p, _ := table.Survival(0)
	assert.Equal(t, 1.0, p)
	p, _ = table.Survival(50)
	assert.InDelta(t, 0.95, p, 1e-12)
	p, _ = table.Survival(90)
	assert.InDelta(t, 0.20, p, 1e-12)
}

func TestParse_Errors(t *testing.T) {
	_, err := mortality.Parse(strings.NewReader("foo,bar\n1,2\n"))
	assert.Error(t, err, "missing columns")

	_, err = mortality.Parse(strings.NewReader("age,survival\n"))
	assert.Error(t, err, "empty")

	_, err = mortality.Parse(strings.NewReader("age,survival\nforty,0.9\n"))
	assert.Error(t, err, "bad age")

	_, err = mortality.Parse(strings.NewReader("age,survival\n40,abc\n"))
	assert.Error(t, err, "bad value")
}

func TestFileProvider_ShippedTable(t *testing.T) {
	p := mortality.NewFileProvider("../../../data/mortality.csv")

	table, err := p.MortalityTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 121, table.Len())
	assert.Empty(t, table.Validate())

	surv, err := domain.SurvivalProbability(38, 90, table)
	require.NoError(t, err)
	assert.Greater(t, surv, 0.0)
	assert.Less(t, surv, 1.0)

	again, err := p.MortalityTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, table.Len(), again.Len())
}

func TestFileProvider_MissingFile(t *testing.T) {
	p := mortality.NewFileProvider("does-not-exist.csv")
	_, err := p.MortalityTable(context.Background())
	assert.Error(t, err)
}
