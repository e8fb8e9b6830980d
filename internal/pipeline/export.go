package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"covid-insights/internal/model"
	"covid-insights/pkg/utils"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{
	colDate, colCountryCode, colCountry, colRegion,
	colNewCases, colCumCases, colNewDeaths, colCumDeaths,
}

// ExportTable writes a table to path. The format follows the extension:
// .csv, .tsv or .xlsx; anything else defaults to CSV. Parent directories
// are created as needed.
func ExportTable(t *model.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	rows := make([][]string, 0, t.Len())
	for _, rec := range t.Records {
		rows = append(rows, []string{
			rec.Date.Format(model.DateLayout),
			rec.CountryCode,
			rec.Country,
			rec.Region,
			utils.FormatCount(rec.NewCases),
			utils.FormatCount(rec.CumCases),
			utils.FormatCount(rec.NewDeaths),
			utils.FormatCount(rec.CumDeaths),
		})
	}

	if err := writeRows(path, exportHeader, rows); err != nil {
		return err
	}
	fmt.Printf("💾 Exported %d records to %s\n", t.Len(), path)
	return nil
}

// ExportAggregate writes an aggregate's groups to path, one row per group.
func ExportAggregate(agg model.Aggregate, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	header := []string{agg.GroupBy, fmt.Sprintf("%s_%s", agg.Op, agg.Metric), "record_count"}
	rows := make([][]string, 0, len(agg.Groups))
	for _, g := range agg.Groups {
		rows = append(rows, []string{
			g.Key,
			utils.FormatCount(g.Value),
			strconv.Itoa(g.RecordCount),
		})
	}

	if err := writeRows(path, header, rows); err != nil {
		return err
	}
	fmt.Printf("💾 Exported %d groups to %s\n", len(agg.Groups), path)
	return nil
}

func writeRows(path string, header []string, rows [][]string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return writeExcel(path, header, rows)
	case ".tsv":
		return writeDelimited(path, '\t', header, rows)
	default:
		return writeDelimited(path, ',', header, rows)
	}
}

func writeDelimited(path string, comma rune, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = comma
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeExcel(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := setSheetRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setSheetRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func setSheetRow(f *excelize.File, sheet string, rowNum int, row []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write sheet row %d: %w", rowNum, err)
	}
	return nil
}
