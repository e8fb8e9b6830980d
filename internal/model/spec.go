package model

// AnalysisSpec defines one end-to-end analysis run: where the data comes
// from, how it is cleaned and sampled, which aggregates to compute, which
// charts to draw and which files to export.
type AnalysisSpec struct {
	// Source is a local path or http(s) URL to a CSV/TSV/XLSX report.
	// Empty means the built-in sample dataset.
	Source string `json:"source"`

	// SamplePercent takes a random row sample before analysis.
	// 0 disables sampling; anything else is clamped to [1, 50].
	SamplePercent int `json:"samplePercent" validate:"gte=0,lte=100"`

	// SampleSeed makes sampling reproducible. 0 means the default seed.
	SampleSeed int64 `json:"sampleSeed"`

	// FillMissing is the missing-value policy applied after type coercion.
	FillMissing string `json:"fillMissing" validate:"omitempty,oneof=keep drop zero ffill"`

	Aggregations []AggregationSpec `json:"aggregations" validate:"dive"`
	Charts       []ChartSpec       `json:"charts" validate:"dive"`
	Exports      []ExportSpec      `json:"exports" validate:"dive"`
}

// AggregationSpec names one group/metric/op combination to compute.
type AggregationSpec struct {
	GroupBy string `json:"groupBy" validate:"oneof=date country region country_code"`
	Metric  string `json:"metric" validate:"oneof=new_cases cumulative_cases new_deaths cumulative_deaths"`
	Op      string `json:"op" validate:"oneof=sum count avg min max"`
}

// ChartSpec names one chart artifact to render.
type ChartSpec struct {
	Kind  string `json:"kind" validate:"omitempty,oneof=line bar"`
	Title string `json:"title"`

	// Aggregation drives the chart series. TopCountries and Country are
	// shortcuts for the two charts of the original notebook: when
	// TopCountries > 0 the chart ranks countries by peak cumulative cases,
	// when Country is set the chart is that country's time series.
	Aggregation  *AggregationSpec `json:"aggregation,omitempty"`
	TopCountries int              `json:"topCountries,omitempty" validate:"gte=0"`
	Country      string           `json:"country,omitempty"`
}

// ExportSpec names one file to write. Format follows the extension
// (.csv, .tsv, .xlsx); What selects the table or a computed aggregate.
type ExportSpec struct {
	File        string           `json:"file" validate:"required"`
	What        string           `json:"what" validate:"omitempty,oneof=table aggregate"`
	Aggregation *AggregationSpec `json:"aggregation,omitempty"`
}

// FillMissing policies.
const (
	FillKeep    = "keep"
	FillDrop    = "drop"
	FillZero    = "zero"
	FillForward = "ffill"
)
