package model

import "time"

// GroupResult is one group of an Aggregate: the formatted group value,
// the aggregated number and how many records contributed to it.
type GroupResult struct {
	Key         string  `json:"key"`
	Value       float64 `json:"value"`
	RecordCount int     `json:"record_count"`
}

// Aggregate is the derived key→value summary for one group/metric/op
// combination. Groups keep the first-seen input order; zero-row groups
// never appear.
type Aggregate struct {
	GroupBy string        `json:"group_by"`
	Metric  string        `json:"metric"`
	Op      string        `json:"op"`
	Groups  []GroupResult `json:"groups"`
}

// Lookup returns the value for a group key.
func (a Aggregate) Lookup(key string) (float64, bool) {
	for _, g := range a.Groups {
		if g.Key == key {
			return g.Value, true
		}
	}
	return 0, false
}

// ArtifactInfo describes one file produced by an analysis run.
type ArtifactInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Kind      string    `json:"kind"` // chart, csv, tsv, excel
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// StageProgress records when a pipeline stage started and finished.
type StageProgress struct {
	Stage       string     `json:"stage"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	RecordCount int        `json:"record_count"`
}

// Run statuses.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
