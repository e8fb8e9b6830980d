package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"covid-insights/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// InitDB opens the run store and creates the schema on first use.
// The in-memory Table is never persisted here — only run bookkeeping:
// specs, statuses, stage progress, aggregate results and artifact paths.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			spec TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			group_by TEXT,
			metric TEXT,
			op TEXT,
			group_key TEXT,
			value REAL,
			record_count INTEGER,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_artifacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			name TEXT,
			path TEXT,
			kind TEXT,
			size_bytes INTEGER,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_stages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			status TEXT,
			started_at DATETIME,
			finished_at DATETIME,
			record_count INTEGER
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle.
func Close() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// SaveRun stores a new analysis run in pending state.
func SaveRun(runID string, spec model.AnalysisSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO runs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, specJSON, model.StatusPending, now, now)
	return err
}

// UpdateRunStatus moves a run to a new status.
func UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// GetRun fetches the full spec and status of one run.
func GetRun(runID string) (map[string]interface{}, error) {
	var specJSON, status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&specJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.AnalysisSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        runID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// ListRuns returns all runs, newest first.
func ListRuns() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return runs, rows.Err()
}

// SaveRunError records a fatal error for a run.
func SaveRunError(runID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, err.Error(), now)
	return e
}

// GetRunErrors returns the recorded errors of a run, oldest first.
func GetRunErrors(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		var msg string
		var createdAt time.Time
		if err := rows.Scan(&msg, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, map[string]interface{}{
			"error":     msg,
			"createdAt": createdAt,
		})
	}
	return out, rows.Err()
}

// SaveAggregate stores every group of one computed aggregate.
func SaveAggregate(runID string, agg model.Aggregate) error {
	now := time.Now().UTC()
	for _, g := range agg.Groups {
		_, err := db.Exec(
			`INSERT INTO run_results (run_id, group_by, metric, op, group_key, value, record_count, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, agg.GroupBy, agg.Metric, agg.Op, g.Key, g.Value, g.RecordCount, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetResults returns a run's stored aggregate rows in insertion order.
func GetResults(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(
		`SELECT group_by, metric, op, group_key, value, record_count FROM run_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		var groupBy, metric, op, key string
		var value float64
		var count int
		if err := rows.Scan(&groupBy, &metric, &op, &key, &value, &count); err != nil {
			return nil, err
		}
		out = append(out, map[string]interface{}{
			"group_by":     groupBy,
			"metric":       metric,
			"op":           op,
			"group_key":    key,
			"value":        value,
			"record_count": count,
		})
	}
	return out, rows.Err()
}

// SaveArtifact records one produced file.
func SaveArtifact(runID string, a model.ArtifactInfo) error {
	_, err := db.Exec(
		`INSERT INTO run_artifacts (run_id, name, path, kind, size_bytes, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, a.Name, a.Path, a.Kind, a.SizeBytes, a.CreatedAt.UTC())
	return err
}

// GetArtifacts returns a run's artifact index.
func GetArtifacts(runID string) ([]model.ArtifactInfo, error) {
	rows, err := db.Query(
		`SELECT name, path, kind, size_bytes, created_at FROM run_artifacts WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ArtifactInfo
	for rows.Next() {
		var a model.ArtifactInfo
		if err := rows.Scan(&a.Name, &a.Path, &a.Kind, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveStageProgress records a stage transition for a run.
func SaveStageProgress(runID, stage, status string, startedAt time.Time, finishedAt *time.Time, recordCount int) error {
	_, err := db.Exec(
		`INSERT INTO run_stages (run_id, stage, status, started_at, finished_at, record_count) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, status, startedAt.UTC(), finishedAt, recordCount)
	return err
}

// GetStageProgress returns a run's stage transitions in order.
func GetStageProgress(runID string) ([]model.StageProgress, error) {
	rows, err := db.Query(
		`SELECT stage, status, started_at, finished_at, record_count FROM run_stages WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.StageProgress
	for rows.Next() {
		var sp model.StageProgress
		if err := rows.Scan(&sp.Stage, &sp.Status, &sp.StartedAt, &sp.FinishedAt, &sp.RecordCount); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its bookkeeping rows.
func DeleteRun(runID string) error {
	for _, stmt := range []string{
		`DELETE FROM run_results WHERE run_id = ?`,
		`DELETE FROM run_artifacts WHERE run_id = ?`,
		`DELETE FROM run_stages WHERE run_id = ?`,
		`DELETE FROM run_errors WHERE run_id = ?`,
		`DELETE FROM runs WHERE id = ?`,
	} {
		if _, err := db.Exec(stmt, runID); err != nil {
			return err
		}
	}
	return nil
}
