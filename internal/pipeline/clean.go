package pipeline

import (
	"fmt"

	"covid-insights/internal/model"
)

// Clean applies a missing-value policy to a table and returns a new table.
// Dates and numeric coercion already happened at load; Clean only decides
// what to do with cells that came in blank.
//
//	keep  — leave missing cells as they are (the default)
//	drop  — remove rows where any count column is missing
//	zero  — replace missing cells with 0
//	ffill — per country, carry the last seen value forward in row order
func Clean(t *model.Table, policy string) (*model.Table, error) {
	if policy == "" {
		policy = model.FillKeep
	}

	out := &model.Table{Source: t.Source, Records: make([]model.Record, 0, t.Len())}

	switch policy {
	case model.FillKeep:
		out.Records = append(out.Records, t.Records...)

	case model.FillDrop:
		for _, rec := range t.Records {
			if anyMissing(rec) {
				continue
			}
			out.Records = append(out.Records, rec)
		}

	case model.FillZero:
		for _, rec := range t.Records {
			out.Records = append(out.Records, fillZero(rec))
		}

	case model.FillForward:
		last := make(map[string]model.Record) // last complete view per country
		for _, rec := range t.Records {
			prev, ok := last[rec.Country]
			if ok {
				rec = fillForward(rec, prev)
			}
			last[rec.Country] = rec
			out.Records = append(out.Records, rec)
		}

	default:
		return nil, fmt.Errorf("unknown fill policy %q (want keep, drop, zero or ffill)", policy)
	}

	dropped := t.Len() - out.Len()
	if dropped > 0 {
		fmt.Printf("🧹 Clean: dropped %d incomplete rows (%d remain)\n", dropped, out.Len())
	}
	return out, nil
}

func anyMissing(r model.Record) bool {
	return model.IsMissing(r.NewCases) || model.IsMissing(r.CumCases) ||
		model.IsMissing(r.NewDeaths) || model.IsMissing(r.CumDeaths)
}

func fillZero(r model.Record) model.Record {
	if model.IsMissing(r.NewCases) {
		r.NewCases = 0
	}
	if model.IsMissing(r.CumCases) {
		r.CumCases = 0
	}
	if model.IsMissing(r.NewDeaths) {
		r.NewDeaths = 0
	}
	if model.IsMissing(r.CumDeaths) {
		r.CumDeaths = 0
	}
	return r
}

func fillForward(r, prev model.Record) model.Record {
	if model.IsMissing(r.NewCases) && !model.IsMissing(prev.NewCases) {
		r.NewCases = prev.NewCases
	}
	if model.IsMissing(r.CumCases) && !model.IsMissing(prev.CumCases) {
		r.CumCases = prev.CumCases
	}
	if model.IsMissing(r.NewDeaths) && !model.IsMissing(prev.NewDeaths) {
		r.NewDeaths = prev.NewDeaths
	}
	if model.IsMissing(r.CumDeaths) && !model.IsMissing(prev.CumDeaths) {
		r.CumDeaths = prev.CumDeaths
	}
	return r
}
