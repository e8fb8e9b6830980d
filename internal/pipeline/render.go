package pipeline

import (
	"errors"
	"fmt"
	"io"

	"covid-insights/internal/model"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ErrUnknownChartKind is returned for chart kinds other than line and bar.
var ErrUnknownChartKind = errors.New("unknown chart kind")

// Chart kinds.
const (
	ChartLine = "line"
	ChartBar  = "bar"
)

// RenderChart draws an aggregate as a line or bar chart and writes a
// standalone HTML page to w. Aggregates grouped by date are re-sorted
// chronologically so line charts read left to right.
func RenderChart(agg model.Aggregate, kind, title string, w io.Writer) error {
	if title == "" {
		title = fmt.Sprintf("%s(%s) by %s", agg.Op, agg.Metric, agg.GroupBy)
	}
	if agg.GroupBy == model.GroupByDate {
		groups := make([]model.GroupResult, len(agg.Groups))
		copy(groups, agg.Groups)
		agg.Groups = groups
		SortGroupsByKey(&agg)
	}

	labels := make([]string, 0, len(agg.Groups))
	values := make([]float64, 0, len(agg.Groups))
	for _, g := range agg.Groups {
		labels = append(labels, g.Key)
		values = append(values, g.Value)
	}

	series := fmt.Sprintf("%s_%s", agg.Op, agg.Metric)

	switch kind {
	case ChartLine:
		line := charts.NewLine()
		line.SetGlobalOptions(chartOptions(title, agg.GroupBy, series)...)
		line.SetXAxis(labels).AddSeries(series, lineData(values))
		return line.Render(w)

	case ChartBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(chartOptions(title, agg.GroupBy, series)...)
		bar.SetXAxis(labels).AddSeries(series, barData(values))
		return bar.Render(w)

	default:
		return fmt.Errorf("%w: %q (want line or bar)", ErrUnknownChartKind, kind)
	}
}

// RenderTopCountries draws the original app's headline chart: a horizontal
// bar ranking of the n countries with the highest peak metric value.
func RenderTopCountries(t *model.Table, metric string, n int, w io.Writer) error {
	agg, err := TopCountries(t, metric, n)
	if err != nil {
		return err
	}

	labels := make([]string, 0, len(agg.Groups))
	values := make([]float64, 0, len(agg.Groups))
	// echarts draws horizontal bars bottom-up; reverse so the biggest sits on top.
	for i := len(agg.Groups) - 1; i >= 0; i-- {
		labels = append(labels, agg.Groups[i].Key)
		values = append(values, agg.Groups[i].Value)
	}

	title := fmt.Sprintf("Top %d countries by %s", len(agg.Groups), metric)
	bar := charts.NewBar()
	bar.SetGlobalOptions(chartOptions(title, "country", metric)...)
	bar.SetXAxis(labels).AddSeries(metric, barData(values))
	bar.XYReversal()
	return bar.Render(w)
}

// RenderCountryTrend draws one country's time series with cumulative and
// new cases as two line series, matching the original's per-country plot.
func RenderCountryTrend(t *model.Table, country string, w io.Writer) error {
	series, err := TrendSeries(t, country)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("COVID-19 cases over time — %s", country)
	line := charts.NewLine()
	line.SetGlobalOptions(chartOptions(title, "date", "cases")...)
	line.SetXAxis(series.Dates).
		AddSeries("cumulative_cases", lineData(series.CumCases)).
		AddSeries("new_cases", lineData(series.NewCases))
	return line.Render(w)
}

func chartOptions(title, xName, yName string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	}
}

// lineData converts values for echarts; missing cells become gaps.
func lineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		if model.IsMissing(v) {
			out[i] = opts.LineData{Value: nil}
		} else {
			out[i] = opts.LineData{Value: v}
		}
	}
	return out
}

func barData(values []float64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		if model.IsMissing(v) {
			out[i] = opts.BarData{Value: nil}
		} else {
			out[i] = opts.BarData{Value: v}
		}
	}
	return out
}
