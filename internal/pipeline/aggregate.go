package pipeline

import (
	"fmt"
	"sort"

	"covid-insights/internal/model"
)

// Aggregate groups the table's records by a key and reduces one count column
// per group. It is a pure function of its inputs: same table, key, metric and
// op always yield the same result. Groups keep first-seen input order and
// zero-row groups are simply absent. Missing cells are skipped by sum, avg,
// min and max, and are not counted by count.
func Aggregate(t *model.Table, groupBy, metric, op string) (model.Aggregate, error) {
	agg := model.Aggregate{GroupBy: groupBy, Metric: metric, Op: op}

	if _, ok := (model.Record{}).GroupValue(groupBy); !ok {
		return agg, fmt.Errorf("unknown group key %q (want date, country, region or country_code)", groupBy)
	}
	if _, ok := (model.Record{}).Metric(metric); !ok {
		return agg, fmt.Errorf("unknown metric %q (want new_cases, cumulative_cases, new_deaths or cumulative_deaths)", metric)
	}
	switch op {
	case model.OpSum, model.OpCount, model.OpAvg, model.OpMin, model.OpMax:
	default:
		return agg, fmt.Errorf("unknown aggregation op %q (want sum, count, avg, min or max)", op)
	}

	type bucket struct {
		sum     float64
		min     float64
		max     float64
		valid   int // cells carrying a value
		records int // rows in the group
	}

	var order []string
	buckets := make(map[string]*bucket)

	for _, rec := range t.Records {
		key, _ := rec.GroupValue(groupBy)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.records++

		v, _ := rec.Metric(metric)
		if model.IsMissing(v) {
			continue
		}
		if b.valid == 0 || v < b.min {
			b.min = v
		}
		if b.valid == 0 || v > b.max {
			b.max = v
		}
		b.sum += v
		b.valid++
	}

	agg.Groups = make([]model.GroupResult, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		var value float64
		switch op {
		case model.OpSum:
			value = b.sum
		case model.OpCount:
			value = float64(b.valid)
		case model.OpAvg:
			if b.valid > 0 {
				value = b.sum / float64(b.valid)
			}
		case model.OpMin:
			value = b.min
		case model.OpMax:
			value = b.max
		}
		agg.Groups = append(agg.Groups, model.GroupResult{
			Key:         key,
			Value:       value,
			RecordCount: b.records,
		})
	}

	return agg, nil
}

// TopCountries ranks countries by their peak value of a metric, descending,
// and keeps the first n. This mirrors the original app's "top countries by
// cumulative cases" table: per-country max, sorted, head(n).
func TopCountries(t *model.Table, metric string, n int) (model.Aggregate, error) {
	agg, err := Aggregate(t, model.GroupByCountry, metric, model.OpMax)
	if err != nil {
		return agg, err
	}
	SortGroupsByValue(&agg, false)
	if n > 0 && len(agg.Groups) > n {
		agg.Groups = agg.Groups[:n]
	}
	return agg, nil
}

// CountrySeries is the per-country time series behind the trend chart.
type CountrySeries struct {
	Country  string
	Dates    []string
	CumCases []float64
	NewCases []float64
}

// TrendSeries extracts one country's records sorted by date.
func TrendSeries(t *model.Table, country string) (CountrySeries, error) {
	series := CountrySeries{Country: country}

	var recs []model.Record
	for _, rec := range t.Records {
		if rec.Country == country {
			recs = append(recs, rec)
		}
	}
	if len(recs) == 0 {
		return series, fmt.Errorf("no records for country %q", country)
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
	for _, rec := range recs {
		series.Dates = append(series.Dates, rec.Date.Format(model.DateLayout))
		series.CumCases = append(series.CumCases, rec.CumCases)
		series.NewCases = append(series.NewCases, rec.NewCases)
	}
	return series, nil
}

// SortGroupsByKey orders groups by group key ascending. Date keys are
// formatted YYYY-MM-DD, so lexical order is chronological order.
func SortGroupsByKey(agg *model.Aggregate) {
	sort.SliceStable(agg.Groups, func(i, j int) bool {
		return agg.Groups[i].Key < agg.Groups[j].Key
	})
}

// SortGroupsByValue orders groups by aggregated value.
func SortGroupsByValue(agg *model.Aggregate, ascending bool) {
	sort.SliceStable(agg.Groups, func(i, j int) bool {
		if ascending {
			return agg.Groups[i].Value < agg.Groups[j].Value
		}
		return agg.Groups[i].Value > agg.Groups[j].Value
	})
}
