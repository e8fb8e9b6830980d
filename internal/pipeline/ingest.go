package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"covid-insights/internal/model"
	"covid-insights/pkg/utils"

	"github.com/xuri/excelize/v2"
)

// ErrBadHeader is returned when the input is missing required report columns.
var ErrBadHeader = errors.New("input header is missing required columns")

// Canonical WHO daily-report column names. Columns are matched by name,
// case-insensitively; order does not matter. Country_code is optional.
const (
	colDate        = "Date_reported"
	colCountryCode = "Country_code"
	colCountry     = "Country"
	colRegion      = "WHO_region"
	colNewCases    = "New_cases"
	colCumCases    = "Cumulative_cases"
	colNewDeaths   = "New_deaths"
	colCumDeaths   = "Cumulative_deaths"
)

var requiredColumns = []string{
	colDate, colCountry, colRegion,
	colNewCases, colCumCases, colNewDeaths, colCumDeaths,
}

// LoadTable reads a report from a local path or http(s) URL into a Table.
// The format follows the file extension: .tsv/.txt are tab separated,
// .xlsx/.xls go through excelize, everything else is comma-separated CSV.
// Any missing file, unknown column or bad row is fatal — no partial loads.
func LoadTable(source string) (*model.Table, error) {
	fmt.Printf("➡️ Loading dataset: %s\n", source)

	rc, err := openSource(source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var table *model.Table
	switch strings.ToLower(filepath.Ext(strings.TrimSuffix(source, "/"))) {
	case ".xlsx", ".xls":
		table, err = loadExcel(rc, source)
	case ".tsv", ".txt":
		table, err = loadDelimited(rc, '\t', source)
	default:
		table, err = loadDelimited(rc, ',', source)
	}
	if err != nil {
		return nil, err
	}

	fmt.Printf("📄 Loaded %d records from %s\n", table.Len(), source)
	return table, nil
}

func openSource(source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("failed to GET dataset: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to GET dataset: %s returned %s", source, resp.Status)
		}
		return resp.Body, nil
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	return file, nil
}

func loadDelimited(r io.Reader, comma rune, source string) (*model.Table, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = comma
	csvReader.LazyQuotes = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return parseRows(header, rows, source)
}

func loadExcel(r io.Reader, source string) (*model.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrBadHeader, sheet)
	}

	return parseRows(rows[0], rows[1:], source)
}

// parseRows maps header names to columns and converts every row into a
// Record. Date cells must parse; count cells become NaN when blank.
func parseRows(header []string, rows [][]string, source string) (*model.Table, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(h, `"`, "")))
		idx[name] = i
	}

	for _, col := range requiredColumns {
		if _, ok := idx[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrBadHeader, col)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := idx[strings.ToLower(col)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	table := &model.Table{Source: source, Records: make([]model.Record, 0, len(rows))}
	for n, row := range rows {
		if len(row) == 0 {
			continue
		}

		date, err := parseDate(cell(row, colDate))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		rec := model.Record{
			Date:        date,
			CountryCode: cell(row, colCountryCode),
			Country:     cell(row, colCountry),
			Region:      cell(row, colRegion),
			NewCases:    utils.ParseCell(cell(row, colNewCases)),
			CumCases:    utils.ParseCell(cell(row, colCumCases)),
			NewDeaths:   utils.ParseCell(cell(row, colNewDeaths)),
			CumDeaths:   utils.ParseCell(cell(row, colCumDeaths)),
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// dateLayouts covers the CSV wire format plus what excelize renders date
// cells as when a sheet carries real date values.
var dateLayouts = []string{
	model.DateLayout,
	"2006/01/02",
	"01-02-06",
	"1/2/06 15:04",
	"01/02/2006",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad report date %q", s)
}
