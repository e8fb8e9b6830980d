package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"covid-insights/internal/model"
	"covid-insights/internal/pipeline"
	"covid-insights/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// runIDFromPath extracts the run ID between a route prefix and suffix,
// e.g. /api/v1/analyses/{id}/results.
func runIDFromPath(path, suffix string) string {
	const prefix = "/api/v1/analyses/"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return ""
	}
	return path[len(prefix) : len(path)-len(suffix)]
}

// CreateAnalysis runs a new analysis
// @Summary Create analysis
// @Description Validate an analysis spec, run the full pipeline synchronously and persist the run
// @Tags analyses
// @Accept json
// @Produce json
// @Param analysis body model.AnalysisSpec true "Analysis configuration"
// @Success 200 {object} map[string]interface{} "Run summary"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 422 {object} map[string]interface{} "Run failed"
// @Router /analyses [post]
func CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var spec model.AnalysisSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(spec); err != nil {
		http.Error(w, fmt.Sprintf("Invalid analysis spec: %v", err), http.StatusBadRequest)
		return
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, spec); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	// The pipeline is a short linear pass over an in-memory table, so the
	// run happens synchronously and the response carries the final status.
	runErr := pipeline.Run(runID, spec, outputs)

	resp := map[string]interface{}{
		"runID":     runID,
		"status":    model.StatusCompleted,
		"createdAt": time.Now().UTC(),
	}
	if runErr != nil {
		resp["status"] = model.StatusFailed
		resp["error"] = runErr.Error()
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListAnalyses lists all runs
// @Summary List analyses
// @Tags analyses
// @Produce json
// @Success 200 {array} map[string]interface{} "Runs, newest first"
// @Router /analyses [get]
func ListAnalyses(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetAnalysis returns one run
// @Summary Get analysis
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run details"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /analyses/{id} [get]
func GetAnalysis(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetAnalysisResults returns a run's stored aggregates
// @Summary Get analysis results
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Aggregate rows"
// @Router /analyses/{id}/results [get]
func GetAnalysisResults(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "/results")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	results, err := store.GetResults(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve results", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":  runID,
		"results": results,
		"count":   len(results),
	})
}

// GetAnalysisArtifacts returns a run's artifact index
// @Summary Get analysis artifacts
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Artifacts"
// @Router /analyses/{id}/artifacts [get]
func GetAnalysisArtifacts(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "/artifacts")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	artifacts, err := store.GetArtifacts(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve artifacts", http.StatusInternalServerError)
		return
	}

	type artifactView struct {
		model.ArtifactInfo
		DownloadURL string `json:"download_url"`
	}
	views := make([]artifactView, 0, len(artifacts))
	for _, a := range artifacts {
		views = append(views, artifactView{ArtifactInfo: a, DownloadURL: outputs.DownloadURL(runID, a.Name)})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":    runID,
		"artifacts": views,
		"count":     len(views),
	})
}

// GetAnalysisErrors returns errors recorded for a run
// @Summary Get analysis errors
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Errors"
// @Router /analyses/{id}/errors [get]
func GetAnalysisErrors(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "/errors")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	errs, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"errors": errs,
		"count":  len(errs),
	})
}

// GetAnalysisProgress returns a run's stage transitions
// @Summary Get analysis progress
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Stage progress"
// @Router /analyses/{id}/progress [get]
func GetAnalysisProgress(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "/progress")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	progress, err := store.GetStageProgress(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve progress", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":   runID,
		"progress": progress,
		"count":    len(progress),
	})
}

// DeleteAnalysis removes a run and its artifacts
// @Summary Delete analysis
// @Description Delete a run, its stored results and its artifact files
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run deleted"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /analyses/{id} [delete]
func DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	if _, err := store.GetRun(runID); err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	artifacts, _ := store.GetArtifacts(runID)
	for _, a := range artifacts {
		os.Remove(a.Path)
	}
	os.RemoveAll(filepath.Join(outputs.BaseOutputDir, runID))

	if err := store.DeleteRun(runID); err != nil {
		http.Error(w, "Failed to delete run", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":           "Run and artifacts deleted",
		"run_id":            runID,
		"artifacts_deleted": len(artifacts),
	})
}

// DownloadArtifact serves one artifact file
// @Summary Download artifact
// @Tags analyses
// @Produce application/octet-stream
// @Param id path string true "Run ID"
// @Param filename path string true "Artifact file name"
// @Success 200 {file} file "Artifact"
// @Failure 404 {object} map[string]interface{} "Artifact not found"
// @Router /download/{id}/{filename} [get]
func DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	// URL format: /api/v1/download/{runID}/{filename}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 5 {
		http.Error(w, "Invalid URL format", http.StatusBadRequest)
		return
	}
	runID, fileName := parts[3], filepath.Base(parts[4])

	filePath := filepath.Join(outputs.BaseOutputDir, runID, fileName)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.Error(w, "Artifact not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	http.ServeFile(w, r, filePath)
}
