package pipeline

import (
	"testing"

	"covid-insights/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleZeroPercentIsNoop(t *testing.T) {
	table := loadFixture(t)

	out := Sample(table, 0, 0)
	assert.Same(t, table, out)
}

func TestSampleIsDeterministic(t *testing.T) {
	table := loadFixture(t)

	a := Sample(table, 50, 7)
	b := Sample(table, 50, 7)
	require.Equal(t, a.Len(), b.Len())
	assert.Equal(t, a.Records, b.Records)
}

func TestSampleClampsPercent(t *testing.T) {
	table := loadFixture(t)

	// 90% is clamped to 50%, so 4 of 8 rows survive.
	out := Sample(table, 90, 1)
	assert.Equal(t, 4, out.Len())
}

func TestSampleKeepsAtLeastOneRow(t *testing.T) {
	table := &model.Table{Records: []model.Record{{Country: "Italy"}, {Country: "Spain"}}}

	out := Sample(table, 1, 1)
	assert.Equal(t, 1, out.Len())
}

func TestSamplePreservesRowOrder(t *testing.T) {
	table := loadFixture(t)

	out := Sample(table, 50, 42)
	require.NotZero(t, out.Len())

	// Every sampled row must appear in the same relative order as the input.
	pos := -1
	for _, rec := range out.Records {
		found := -1
		for i := pos + 1; i < table.Len(); i++ {
			if table.Records[i] == rec {
				found = i
				break
			}
		}
		require.GreaterOrEqual(t, found, 0, "sampled row missing or out of order")
		pos = found
	}
}
