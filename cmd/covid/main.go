package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"covid-insights/internal/model"
	"covid-insights/internal/pipeline"
	"covid-insights/pkg/utils"
)

// The CLI runs the whole pipeline once: load → clean → sample → aggregate →
// chart. Every flag has a default, so a bare invocation analyzes the
// built-in sample dataset. Exit is non-zero on any load, parse or render
// failure.
func main() {
	input := flag.String("input", "", "CSV/TSV/XLSX report path or URL (empty = built-in sample)")
	sample := flag.Int("sample", 0, "random sample percent, clamped to [1,50] (0 = off)")
	seed := flag.Int64("seed", 0, "sample seed (0 = default)")
	fill := flag.String("fill", model.FillKeep, "missing-value policy: keep | drop | zero | ffill")
	groupBy := flag.String("group-by", model.GroupByDate, "group key: date | country | region | country_code")
	metric := flag.String("metric", model.MetricNewCases, "metric column")
	op := flag.String("op", model.OpSum, "aggregation: sum | count | avg | min | max")
	chartKind := flag.String("chart", pipeline.ChartLine, "chart kind: line | bar")
	country := flag.String("country", "", "also render a trend chart for this country")
	top := flag.Int("top", 10, "also render the top-N countries bar chart (0 = off)")
	out := flag.String("out", "charts", "directory for chart artifacts")
	export := flag.String("export", "", "also export the cleaned table to this file (.csv/.tsv/.xlsx)")
	flag.Parse()

	if err := run(*input, *sample, *seed, *fill, *groupBy, *metric, *op, *chartKind, *country, *top, *out, *export); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(input string, sample int, seed int64, fill, groupBy, metric, op, chartKind, country string, top int, out, export string) error {
	var table *model.Table
	var err error
	if input == "" {
		table, err = pipeline.LoadBuiltinSample()
	} else {
		table, err = pipeline.LoadTable(input)
	}
	if err != nil {
		return err
	}

	if table, err = pipeline.Clean(table, fill); err != nil {
		return err
	}
	if sample > 0 {
		table = pipeline.Sample(table, sample, seed)
	}

	agg, err := pipeline.Aggregate(table, groupBy, metric, op)
	if err != nil {
		return err
	}
	printAggregate(agg)

	if err := os.MkdirAll(out, 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	chartPath := filepath.Join(out, fmt.Sprintf("%s_%s_by_%s.html", op, metric, groupBy))
	if err := renderToFile(chartPath, func(f *os.File) error {
		return pipeline.RenderChart(agg, chartKind, "", f)
	}); err != nil {
		return err
	}

	if top > 0 {
		topPath := filepath.Join(out, "top_countries.html")
		if err := renderToFile(topPath, func(f *os.File) error {
			return pipeline.RenderTopCountries(table, model.MetricCumCases, top, f)
		}); err != nil {
			return err
		}
	}

	if country != "" {
		trendPath := filepath.Join(out, "trend.html")
		if err := renderToFile(trendPath, func(f *os.File) error {
			return pipeline.RenderCountryTrend(table, country, f)
		}); err != nil {
			return err
		}
	}

	if export != "" {
		if err := pipeline.ExportTable(table, export); err != nil {
			return err
		}
	}

	return nil
}

func renderToFile(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := render(f); err != nil {
		return err
	}
	fmt.Printf("📈 Wrote %s\n", path)
	return nil
}

func printAggregate(agg model.Aggregate) {
	fmt.Printf("📊 %s(%s) by %s — %d groups\n", agg.Op, agg.Metric, agg.GroupBy, len(agg.Groups))
	for _, g := range agg.Groups {
		fmt.Printf("  %-32s %14s  (%d records)\n", g.Key, utils.FormatCount(g.Value), g.RecordCount)
	}
}
