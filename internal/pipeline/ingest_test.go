package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"covid-insights/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "testdata/covid_sample.csv"

func TestLoadTableCSV(t *testing.T) {
	table, err := LoadTable(fixturePath)
	require.NoError(t, err)
	require.Equal(t, 8, table.Len())
	assert.Equal(t, fixturePath, table.Source)

	first := table.Records[0]
	assert.Equal(t, "2020-01-01", first.Date.Format(model.DateLayout))
	assert.Equal(t, "AF", first.CountryCode)
	assert.Equal(t, "Afghanistan", first.Country)
	assert.Equal(t, "EMR", first.Region)
	assert.Equal(t, 5.0, first.NewCases)
	assert.Equal(t, 5.0, first.CumCases)
}

func TestLoadTableBlankCellsAreMissing(t *testing.T) {
	table, err := LoadTable(fixturePath)
	require.NoError(t, err)

	// Italy on 2020-01-02 has blank New_cases and New_deaths.
	rec := table.Records[3]
	require.Equal(t, "Italy", rec.Country)
	assert.True(t, model.IsMissing(rec.NewCases))
	assert.True(t, model.IsMissing(rec.NewDeaths))
	assert.Equal(t, 3.0, rec.CumCases)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable("testdata/does_not_exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open dataset file")
}

func TestLoadTableBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "Date_reported,Country,New_cases\n2020-01-01,Italy,3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadTable(path)
	require.ErrorIs(t, err, ErrBadHeader)
}

func TestLoadTableBadDateIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad_date.csv")
	content := "Date_reported,Country_code,Country,WHO_region,New_cases,Cumulative_cases,New_deaths,Cumulative_deaths\n" +
		"not-a-date,IT,Italy,EUR,3,3,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "not-a-date")
}

func TestLoadTableHeaderIsCaseAndOrderInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shuffled.csv")
	content := "country,WHO_REGION,date_reported,new_cases,cumulative_cases,new_deaths,cumulative_deaths\n" +
		"Italy,EUR,2020-01-01,3,3,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadTable(path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Italy", table.Records[0].Country)
	assert.Equal(t, "EUR", table.Records[0].Region)
	assert.Equal(t, 3.0, table.Records[0].NewCases)
	// Country_code is optional.
	assert.Empty(t, table.Records[0].CountryCode)
}

func TestLoadTableTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.tsv")
	content := "Date_reported\tCountry_code\tCountry\tWHO_region\tNew_cases\tCumulative_cases\tNew_deaths\tCumulative_deaths\n" +
		"2020-01-01\tIT\tItaly\tEUR\t3\t3\t1\t1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadTable(path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Italy", table.Records[0].Country)
}

func TestLoadBuiltinSample(t *testing.T) {
	table, err := LoadBuiltinSample()
	require.NoError(t, err)
	assert.Equal(t, 16, table.Len())
	assert.Equal(t, "builtin-sample", table.Source)
	assert.Contains(t, table.Countries(), "Norway")
	assert.Contains(t, table.Regions(), "AFR")

	// Niger's counts are blank in the source report.
	niger := table.Records[0]
	require.Equal(t, "Niger", niger.Country)
	assert.True(t, model.IsMissing(niger.NewCases))
	assert.False(t, model.IsMissing(niger.CumCases))
}

func TestParseDateLayouts(t *testing.T) {
	for _, s := range []string{"2020-03-15", "2020/03/15", "03/15/2020"} {
		d, err := parseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, "2020-03-15", d.Format(model.DateLayout), s)
	}

	_, err := parseDate("15 March 2020")
	assert.Error(t, err)
}
