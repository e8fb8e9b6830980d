package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"covid-insights/internal/api/handler"
	"covid-insights/internal/model"
	"covid-insights/internal/store"
	"covid-insights/pkg/router"
	"covid-insights/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	require.NoError(t, store.InitDB(filepath.Join(t.TempDir(), "runs.db")))
	t.Cleanup(func() { store.Close() })

	handler.Configure(utils.NewOutputManager(t.TempDir()), t.TempDir())

	r := router.New()
	RegisterRoutes(r)
	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestAnalysisLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Create a run over the built-in sample with one aggregate, one chart
	// and one export.
	spec := model.AnalysisSpec{
		Aggregations: []model.AggregationSpec{
			{GroupBy: model.GroupByRegion, Metric: model.MetricCumCases, Op: model.OpCount},
		},
		Charts:  []model.ChartSpec{{TopCountries: 3}},
		Exports: []model.ExportSpec{{File: "cleaned.csv", What: "table"}},
	}
	payload, err := json.Marshal(spec)
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/v1/analyses", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, model.StatusCompleted, body["status"])

	runID, ok := body["runID"].(string)
	require.True(t, ok)
	require.NotEmpty(t, runID)

	// The run shows up in the listing and in the detail view.
	resp, err = http.Get(srv.URL + "/api/v1/analyses")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/analyses/" + runID)
	require.NoError(t, err)
	detail := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.StatusCompleted, detail["status"])

	// Stored aggregate rows.
	resp, err = http.Get(srv.URL + "/api/v1/analyses/" + runID + "/results")
	require.NoError(t, err)
	results := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotZero(t, results["count"])

	// Artifact index carries download URLs that actually serve the files.
	resp, err = http.Get(srv.URL + "/api/v1/analyses/" + runID + "/artifacts")
	require.NoError(t, err)
	artifacts := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2.0, artifacts["count"])

	list := artifacts["artifacts"].([]interface{})
	first := list[0].(map[string]interface{})
	url, ok := first["download_url"].(string)
	require.True(t, ok)

	resp, err = http.Get(srv.URL + url)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, data)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	// Stage progress was recorded.
	resp, err = http.Get(srv.URL + "/api/v1/analyses/" + runID + "/progress")
	require.NoError(t, err)
	progress := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotZero(t, progress["count"])

	// Delete removes the run and its files.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/analyses/"+runID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/analyses/" + runID)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateAnalysisRejectsBadJSON(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/analyses", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateAnalysisRejectsInvalidSpec(t *testing.T) {
	srv := newTestServer(t)

	payload := []byte(`{"aggregations":[{"groupBy":"date","metric":"new_cases","op":"median"}]}`)
	resp, err := http.Post(srv.URL+"/api/v1/analyses", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Invalid analysis spec")
}

func TestCreateAnalysisRecordsRunFailure(t *testing.T) {
	srv := newTestServer(t)

	payload := []byte(`{"source":"does_not_exist.csv"}`)
	resp, err := http.Post(srv.URL+"/api/v1/analyses", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, model.StatusFailed, body["status"])

	runID := body["runID"].(string)
	resp, err = http.Get(srv.URL + "/api/v1/analyses/" + runID + "/errors")
	require.NoError(t, err)
	errs := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, errs["count"])
}

func TestUnknownRouteIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDatasetRouteRejectsWrongMethod(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/analyses", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
