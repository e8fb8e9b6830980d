package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"covid-insights/internal/model"
	"covid-insights/internal/store"
	"covid-insights/pkg/utils"
)

// Run executes one analysis end to end: ingest → clean → sample →
// aggregate → render → export. Every stage is a plain synchronous function
// call over the in-memory table; any ingest or render failure is fatal to
// the run. Stage transitions, results and artifacts are recorded in the
// run store as they happen.
func Run(runID string, spec model.AnalysisSpec, om *utils.OutputManager) (err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting analysis run %s\n", runID)
	store.UpdateRunStatus(runID, model.StatusRunning)

	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, model.StatusFailed)
			store.SaveRunError(runID, err)
			fmt.Printf("❌ Run %s failed: %v\n", runID, err)
		}
	}()

	// --- INGEST ---
	table, err := runIngest(runID, spec.Source)
	if err != nil {
		return err
	}

	// --- CLEAN ---
	table, err = runClean(runID, table, spec.FillMissing)
	if err != nil {
		return err
	}

	// --- SAMPLE ---
	if spec.SamplePercent > 0 {
		table = Sample(table, spec.SamplePercent, spec.SampleSeed)
	}

	// --- AGGREGATE ---
	aggregates := make(map[string]model.Aggregate, len(spec.Aggregations))
	if len(spec.Aggregations) > 0 {
		stageStart := time.Now()
		store.SaveStageProgress(runID, "aggregate", "started", stageStart, nil, 0)

		for _, as := range spec.Aggregations {
			agg, aerr := Aggregate(table, as.GroupBy, as.Metric, as.Op)
			if aerr != nil {
				return aerr
			}
			aggregates[aggKey(as)] = agg
			if serr := store.SaveAggregate(runID, agg); serr != nil {
				return fmt.Errorf("failed to save aggregate: %w", serr)
			}
			fmt.Printf("📊 Aggregated %s(%s) by %s: %d groups\n", as.Op, as.Metric, as.GroupBy, len(agg.Groups))
		}

		stageEnd := time.Now()
		store.SaveStageProgress(runID, "aggregate", "completed", stageStart, &stageEnd, len(spec.Aggregations))
	}

	// --- RENDER ---
	for i, cs := range spec.Charts {
		if err := renderChartArtifact(runID, table, aggregates, cs, i, om); err != nil {
			return err
		}
	}

	// --- EXPORT ---
	for _, es := range spec.Exports {
		if err := exportArtifact(runID, table, aggregates, es, om); err != nil {
			return err
		}
	}

	store.UpdateRunStatus(runID, model.StatusCompleted)
	fmt.Printf("🏁 Run %s completed in %v\n", runID, time.Since(start))
	return nil
}

func runIngest(runID, source string) (*model.Table, error) {
	stageStart := time.Now()
	store.SaveStageProgress(runID, "ingest", "started", stageStart, nil, 0)

	var table *model.Table
	var err error
	if source == "" {
		table, err = LoadBuiltinSample()
	} else {
		table, err = LoadTable(source)
	}

	stageEnd := time.Now()
	if err != nil {
		store.SaveStageProgress(runID, "ingest", "failed", stageStart, &stageEnd, 0)
		return nil, err
	}
	store.SaveStageProgress(runID, "ingest", "completed", stageStart, &stageEnd, table.Len())
	return table, nil
}

func runClean(runID string, table *model.Table, policy string) (*model.Table, error) {
	stageStart := time.Now()
	store.SaveStageProgress(runID, "clean", "started", stageStart, nil, 0)

	cleaned, err := Clean(table, policy)

	stageEnd := time.Now()
	if err != nil {
		store.SaveStageProgress(runID, "clean", "failed", stageStart, &stageEnd, 0)
		return nil, err
	}
	store.SaveStageProgress(runID, "clean", "completed", stageStart, &stageEnd, cleaned.Len())
	return cleaned, nil
}

func renderChartArtifact(runID string, table *model.Table, aggregates map[string]model.Aggregate, cs model.ChartSpec, n int, om *utils.OutputManager) error {
	name := chartFileName(cs, n)
	path, err := om.ArtifactPath(runID, name)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer file.Close()

	switch {
	case cs.TopCountries > 0:
		metric := model.MetricCumCases
		if cs.Aggregation != nil {
			metric = cs.Aggregation.Metric
		}
		err = RenderTopCountries(table, metric, cs.TopCountries, file)

	case cs.Country != "":
		err = RenderCountryTrend(table, cs.Country, file)

	case cs.Aggregation != nil:
		agg, ok := aggregates[aggKey(*cs.Aggregation)]
		if !ok {
			agg, err = Aggregate(table, cs.Aggregation.GroupBy, cs.Aggregation.Metric, cs.Aggregation.Op)
			if err != nil {
				return err
			}
		}
		err = RenderChart(agg, cs.Kind, cs.Title, file)

	default:
		return fmt.Errorf("chart %d: needs an aggregation, topCountries or country", n+1)
	}
	if err != nil {
		return err
	}

	fmt.Printf("📈 Rendered chart: %s\n", name)
	return saveArtifactInfo(runID, name, path, om)
}

func exportArtifact(runID string, table *model.Table, aggregates map[string]model.Aggregate, es model.ExportSpec, om *utils.OutputManager) error {
	path, err := om.ArtifactPath(runID, es.File)
	if err != nil {
		return err
	}

	switch es.What {
	case "aggregate":
		if es.Aggregation == nil {
			return fmt.Errorf("export %s: aggregate export needs an aggregation", es.File)
		}
		agg, ok := aggregates[aggKey(*es.Aggregation)]
		if !ok {
			agg, err = Aggregate(table, es.Aggregation.GroupBy, es.Aggregation.Metric, es.Aggregation.Op)
			if err != nil {
				return err
			}
		}
		if err := ExportAggregate(agg, path); err != nil {
			return err
		}
	default: // table
		if err := ExportTable(table, path); err != nil {
			return err
		}
	}

	return saveArtifactInfo(runID, filepath.Base(es.File), path, om)
}

func saveArtifactInfo(runID, name, path string, om *utils.OutputManager) error {
	size, _ := om.FileSize(path)
	return store.SaveArtifact(runID, model.ArtifactInfo{
		Name:      name,
		Path:      path,
		Kind:      om.FileKind(name),
		SizeBytes: size,
		CreatedAt: time.Now().UTC(),
	})
}

func chartFileName(cs model.ChartSpec, n int) string {
	switch {
	case cs.TopCountries > 0:
		return "top_countries.html"
	case cs.Country != "":
		slug := strings.ToLower(strings.ReplaceAll(cs.Country, " ", "_"))
		return fmt.Sprintf("trend_%s.html", slug)
	default:
		kind := cs.Kind
		if kind == "" {
			kind = ChartBar
		}
		return fmt.Sprintf("chart_%d_%s.html", n+1, kind)
	}
}

func aggKey(as model.AggregationSpec) string {
	return as.GroupBy + "|" + as.Metric + "|" + as.Op
}
