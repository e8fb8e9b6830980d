package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"covid-insights/internal/model"
	"covid-insights/internal/pipeline"
	"covid-insights/pkg/utils"
)

var (
	mu      sync.RWMutex
	current *model.Table

	outputs   = utils.NewOutputManager("outputs")
	uploadDir = "uploads"
)

// Configure wires the handlers to the output manager and upload directory
// chosen by the server config. Called once from main before serving.
func Configure(om *utils.OutputManager, uploads string) {
	outputs = om
	uploadDir = uploads
}

// SetDataset replaces the in-memory dataset all read endpoints compute from.
func SetDataset(t *model.Table) {
	mu.Lock()
	defer mu.Unlock()
	current = t
}

func dataset() *model.Table {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// UploadDataset replaces the current dataset from a multipart file upload
// @Summary Upload dataset
// @Description Upload a CSV, TSV or XLSX report and make it the current dataset
// @Tags dataset
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Report file (csv, tsv, xlsx)"
// @Success 200 {object} map[string]interface{} "Dataset replaced"
// @Failure 400 {object} map[string]interface{} "Missing or unreadable file"
// @Failure 422 {object} map[string]interface{} "File did not parse"
// @Router /dataset [post]
func UploadDataset(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing 'file' form field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		http.Error(w, "Failed to prepare upload directory", http.StatusInternalServerError)
		return
	}

	// Persist the upload so excelize and re-loads can seek it.
	dest := filepath.Join(uploadDir, filepath.Base(header.Filename))
	out, err := os.Create(dest)
	if err != nil {
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	if _, err := out.ReadFrom(file); err != nil {
		out.Close()
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	out.Close()

	table, err := pipeline.LoadTable(dest)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse dataset: %v", err), http.StatusUnprocessableEntity)
		return
	}
	SetDataset(table)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Dataset replaced",
		"source":  dest,
		"rows":    table.Len(),
	})
}

// GetDatasetSummary describes the current dataset
// @Summary Dataset summary
// @Description Row count, countries, regions and date range of the current dataset
// @Tags dataset
// @Produce json
// @Success 200 {object} map[string]interface{} "Summary"
// @Router /dataset/summary [get]
func GetDatasetSummary(w http.ResponseWriter, r *http.Request) {
	t := dataset()
	if t == nil {
		http.Error(w, "No dataset loaded", http.StatusNotFound)
		return
	}

	first, last := t.DateRange()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"source":     t.Source,
		"rows":       t.Len(),
		"countries":  len(t.Countries()),
		"regions":    t.Regions(),
		"first_date": first.Format(model.DateLayout),
		"last_date":  last.Format(model.DateLayout),
	})
}

// PreviewDataset returns the first rows of the current dataset
// @Summary Preview dataset
// @Tags dataset
// @Produce json
// @Param limit query int false "Row limit (default 10)"
// @Success 200 {object} map[string]interface{} "Preview rows"
// @Router /dataset/preview [get]
func PreviewDataset(w http.ResponseWriter, r *http.Request) {
	t := dataset()
	if t == nil {
		http.Error(w, "No dataset loaded", http.StatusNotFound)
		return
	}

	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > t.Len() {
		limit = t.Len()
	}

	rows := make([]map[string]interface{}, 0, limit)
	for _, rec := range t.Records[:limit] {
		rows = append(rows, recordJSON(rec))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":  rows,
		"count": len(rows),
		"total": t.Len(),
	})
}

// recordJSON renders a record with missing cells as null, since NaN has no
// JSON encoding.
func recordJSON(rec model.Record) map[string]interface{} {
	count := func(v float64) interface{} {
		if model.IsMissing(v) {
			return nil
		}
		return v
	}
	return map[string]interface{}{
		"date":              rec.Date.Format(model.DateLayout),
		"country_code":      rec.CountryCode,
		"country":           rec.Country,
		"region":            rec.Region,
		"new_cases":         count(rec.NewCases),
		"cumulative_cases":  count(rec.CumCases),
		"new_deaths":        count(rec.NewDeaths),
		"cumulative_deaths": count(rec.CumDeaths),
	}
}

// ListCountries returns the distinct countries of the current dataset
// @Summary List countries
// @Tags dataset
// @Produce json
// @Success 200 {object} map[string]interface{} "Countries"
// @Router /dataset/countries [get]
func ListCountries(w http.ResponseWriter, r *http.Request) {
	t := dataset()
	if t == nil {
		http.Error(w, "No dataset loaded", http.StatusNotFound)
		return
	}
	countries := t.Countries()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"countries": countries,
		"count":     len(countries),
	})
}

// ListRegions returns the distinct WHO regions of the current dataset
// @Summary List WHO regions
// @Tags dataset
// @Produce json
// @Success 200 {object} map[string]interface{} "Regions"
// @Router /dataset/regions [get]
func ListRegions(w http.ResponseWriter, r *http.Request) {
	t := dataset()
	if t == nil {
		http.Error(w, "No dataset loaded", http.StatusNotFound)
		return
	}
	regions := t.Regions()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"regions": regions,
		"count":   len(regions),
	})
}

// GetAggregate recomputes one aggregate from the current dataset
// @Summary Compute aggregate
// @Description Group the current dataset and reduce one metric; recomputed synchronously on every call
// @Tags aggregate
// @Produce json
// @Param group_by query string true "date | country | region | country_code"
// @Param metric query string true "new_cases | cumulative_cases | new_deaths | cumulative_deaths"
// @Param op query string false "sum | count | avg | min | max (default sum)"
// @Param sample query int false "Random sample percent, clamped to [1,50]"
// @Success 200 {object} model.Aggregate "Aggregate"
// @Failure 400 {object} map[string]interface{} "Unknown key, metric or op"
// @Router /aggregate [get]
func GetAggregate(w http.ResponseWriter, r *http.Request) {
	t := dataset()
	if t == nil {
		http.Error(w, "No dataset loaded", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	groupBy := q.Get("group_by")
	metric := q.Get("metric")
	op := q.Get("op")
	if op == "" {
		op = model.OpSum
	}

	if s := q.Get("sample"); s != "" {
		if pct, err := strconv.Atoi(s); err == nil {
			t = pipeline.Sample(t, pct, 0)
		}
	}

	agg, err := pipeline.Aggregate(t, groupBy, metric, op)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// ChartTopCountries renders the top-countries bar chart
// @Summary Top countries chart
// @Description Bar chart of countries ranked by peak metric value, as standalone HTML
// @Tags charts
// @Produce html
// @Param limit query int false "Number of countries (default 10)"
// @Param metric query string false "Metric (default cumulative_cases)"
// @Success 200 {string} string "Chart HTML"
// @Router /charts/top-countries [get]
func ChartTopCountries(w http.ResponseWriter, r *http.Request) {
	t := dataset()
	if t == nil {
		http.Error(w, "No dataset loaded", http.StatusNotFound)
		return
	}

	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = model.MetricCumCases
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pipeline.RenderTopCountries(t, metric, limit, w); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

// ChartCountryTrend renders one country's time-series line chart
// @Summary Country trend chart
// @Description Line chart of cumulative and new cases for one country, as standalone HTML
// @Tags charts
// @Produce html
// @Param country query string true "Country name"
// @Success 200 {string} string "Chart HTML"
// @Failure 404 {object} map[string]interface{} "Unknown country"
// @Router /charts/trend [get]
func ChartCountryTrend(w http.ResponseWriter, r *http.Request) {
	t := dataset()
	if t == nil {
		http.Error(w, "No dataset loaded", http.StatusNotFound)
		return
	}

	country := r.URL.Query().Get("country")
	if country == "" {
		http.Error(w, "Query parameter 'country' is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pipeline.RenderCountryTrend(t, country, w); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}
