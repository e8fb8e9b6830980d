package model

import (
	"math"
	"time"
)

// Missing marks a numeric cell that was empty or unparseable in the source.
// Stored as NaN so arithmetic helpers can skip it without a separate flag.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether a numeric cell carries no value.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Record is one (date, country) observation from a WHO daily report.
type Record struct {
	Date        time.Time `json:"date"`
	CountryCode string    `json:"country_code"`
	Country     string    `json:"country"`
	Region      string    `json:"region"` // WHO region code: AFR, EUR, AMR, ...
	NewCases    float64   `json:"new_cases"`
	CumCases    float64   `json:"cumulative_cases"`
	NewDeaths   float64   `json:"new_deaths"`
	CumDeaths   float64   `json:"cumulative_deaths"`
}

// Metric returns the named count column of the record.
// The bool is false for unknown metric names.
func (r Record) Metric(name string) (float64, bool) {
	switch name {
	case MetricNewCases:
		return r.NewCases, true
	case MetricCumCases:
		return r.CumCases, true
	case MetricNewDeaths:
		return r.NewDeaths, true
	case MetricCumDeaths:
		return r.CumDeaths, true
	}
	return 0, false
}

// GroupValue returns the record's value for a group key.
// Dates are formatted as YYYY-MM-DD so keys stay sortable.
func (r Record) GroupValue(key string) (string, bool) {
	switch key {
	case GroupByDate:
		return r.Date.Format(DateLayout), true
	case GroupByCountry:
		return r.Country, true
	case GroupByRegion:
		return r.Region, true
	case GroupByCountryCode:
		return r.CountryCode, true
	}
	return "", false
}

// Table is an ordered collection of records sharing the report schema.
// It lives in memory only; cleaning and sampling produce new Tables.
type Table struct {
	Source  string   `json:"source"`
	Records []Record `json:"records"`
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Countries returns the distinct country names in first-seen order.
func (t *Table) Countries() []string {
	return t.distinct(GroupByCountry)
}

// Regions returns the distinct WHO region codes in first-seen order.
func (t *Table) Regions() []string {
	return t.distinct(GroupByRegion)
}

func (t *Table) distinct(key string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range t.Records {
		v, _ := rec.GroupValue(key)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// DateRange returns the earliest and latest report dates in the table.
func (t *Table) DateRange() (time.Time, time.Time) {
	var min, max time.Time
	for _, rec := range t.Records {
		if min.IsZero() || rec.Date.Before(min) {
			min = rec.Date
		}
		if max.IsZero() || rec.Date.After(max) {
			max = rec.Date
		}
	}
	return min, max
}

// DateLayout is the wire format for report dates.
const DateLayout = "2006-01-02"

// Group keys accepted by the aggregator.
const (
	GroupByDate        = "date"
	GroupByCountry     = "country"
	GroupByRegion      = "region"
	GroupByCountryCode = "country_code"
)

// Metric column names accepted by the aggregator.
const (
	MetricNewCases  = "new_cases"
	MetricCumCases  = "cumulative_cases"
	MetricNewDeaths = "new_deaths"
	MetricCumDeaths = "cumulative_deaths"
)

// Aggregation operations.
const (
	OpSum   = "sum"
	OpCount = "count"
	OpAvg   = "avg"
	OpMin   = "min"
	OpMax   = "max"
)
