package pipeline

import (
	"testing"

	"covid-insights/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *model.Table {
	t.Helper()
	table, err := LoadTable(fixturePath)
	require.NoError(t, err)
	return table
}

func TestCleanKeep(t *testing.T) {
	table := loadFixture(t)

	out, err := Clean(table, model.FillKeep)
	require.NoError(t, err)
	require.Equal(t, table.Len(), out.Len())
	assert.True(t, model.IsMissing(out.Records[3].NewCases))
}

func TestCleanDefaultsToKeep(t *testing.T) {
	table := loadFixture(t)

	out, err := Clean(table, "")
	require.NoError(t, err)
	assert.Equal(t, table.Len(), out.Len())
}

func TestCleanDrop(t *testing.T) {
	table := loadFixture(t)

	out, err := Clean(table, model.FillDrop)
	require.NoError(t, err)
	// One fixture row (Italy, 2020-01-02) has missing cells.
	require.Equal(t, 7, out.Len())
	for _, rec := range out.Records {
		assert.False(t, model.IsMissing(rec.NewCases))
		assert.False(t, model.IsMissing(rec.NewDeaths))
	}
}

func TestCleanZero(t *testing.T) {
	table := loadFixture(t)

	out, err := Clean(table, model.FillZero)
	require.NoError(t, err)
	require.Equal(t, table.Len(), out.Len())

	rec := out.Records[3]
	require.Equal(t, "Italy", rec.Country)
	assert.Equal(t, 0.0, rec.NewCases)
	assert.Equal(t, 0.0, rec.NewDeaths)
	assert.Equal(t, 3.0, rec.CumCases)
}

func TestCleanForwardFill(t *testing.T) {
	table := loadFixture(t)

	out, err := Clean(table, model.FillForward)
	require.NoError(t, err)
	require.Equal(t, table.Len(), out.Len())

	// Italy's blank 2020-01-02 cells take the 2020-01-01 values.
	rec := out.Records[3]
	require.Equal(t, "Italy", rec.Country)
	assert.Equal(t, 3.0, rec.NewCases)
	assert.Equal(t, 1.0, rec.NewDeaths)
}

func TestCleanForwardFillIsPerCountry(t *testing.T) {
	table := &model.Table{Records: []model.Record{
		{Country: "Italy", NewCases: 9, CumCases: 9, NewDeaths: 0, CumDeaths: 0},
		{Country: "Spain", NewCases: model.Missing(), CumCases: 1, NewDeaths: 0, CumDeaths: 0},
	}}

	out, err := Clean(table, model.FillForward)
	require.NoError(t, err)
	// Spain has no earlier Spain row, so its cell stays missing.
	assert.True(t, model.IsMissing(out.Records[1].NewCases))
}

func TestCleanUnknownPolicy(t *testing.T) {
	table := loadFixture(t)

	_, err := Clean(table, "interpolate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fill policy")
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	table := loadFixture(t)

	_, err := Clean(table, model.FillZero)
	require.NoError(t, err)
	assert.True(t, model.IsMissing(table.Records[3].NewCases))
}
