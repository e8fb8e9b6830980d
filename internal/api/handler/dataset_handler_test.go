package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"covid-insights/internal/model"
	"covid-insights/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, _ := time.Parse(model.DateLayout, s)
	return d
}

func testTable() *model.Table {
	return &model.Table{
		Source: "test",
		Records: []model.Record{
			{Date: day("2020-01-01"), CountryCode: "AF", Country: "Afghanistan", Region: "EMR", NewCases: 5, CumCases: 5, NewDeaths: 0, CumDeaths: 0},
			{Date: day("2020-01-01"), CountryCode: "IT", Country: "Italy", Region: "EUR", NewCases: 3, CumCases: 3, NewDeaths: 1, CumDeaths: 1},
			{Date: day("2020-01-02"), CountryCode: "IT", Country: "Italy", Region: "EUR", NewCases: model.Missing(), CumCases: 3, NewDeaths: model.Missing(), CumDeaths: 1},
			{Date: day("2020-01-02"), CountryCode: "AF", Country: "Afghanistan", Region: "EMR", NewCases: 2, CumCases: 7, NewDeaths: 0, CumDeaths: 0},
		},
	}
}

func getJSON(t *testing.T, h http.HandlerFunc, url string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestGetDatasetSummary(t *testing.T) {
	SetDataset(testTable())

	code, body := getJSON(t, GetDatasetSummary, "/api/v1/dataset/summary")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 4.0, body["rows"])
	assert.Equal(t, 2.0, body["countries"])
	assert.Equal(t, "2020-01-01", body["first_date"])
	assert.Equal(t, "2020-01-02", body["last_date"])
}

func TestSummaryWithoutDataset(t *testing.T) {
	SetDataset(nil)
	defer SetDataset(testTable())

	code, _ := getJSON(t, GetDatasetSummary, "/api/v1/dataset/summary")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPreviewDataset(t *testing.T) {
	SetDataset(testTable())

	code, body := getJSON(t, PreviewDataset, "/api/v1/dataset/preview?limit=2")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2.0, body["count"])
	assert.Equal(t, 4.0, body["total"])

	rows := body["rows"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "Afghanistan", first["country"])
	assert.Equal(t, 5.0, first["new_cases"])
}

func TestPreviewRendersMissingAsNull(t *testing.T) {
	SetDataset(testTable())

	code, body := getJSON(t, PreviewDataset, "/api/v1/dataset/preview?limit=4")
	require.Equal(t, http.StatusOK, code)

	rows := body["rows"].([]interface{})
	italy := rows[2].(map[string]interface{})
	require.Equal(t, "Italy", italy["country"])
	assert.Nil(t, italy["new_cases"])
	assert.Equal(t, 3.0, italy["cumulative_cases"])
}

func TestListCountriesAndRegions(t *testing.T) {
	SetDataset(testTable())

	code, body := getJSON(t, ListCountries, "/api/v1/dataset/countries")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"Afghanistan", "Italy"}, body["countries"])

	code, body = getJSON(t, ListRegions, "/api/v1/dataset/regions")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"EMR", "EUR"}, body["regions"])
}

func TestGetAggregate(t *testing.T) {
	SetDataset(testTable())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/aggregate?group_by=date&metric=new_cases&op=sum", nil)
	rec := httptest.NewRecorder()
	GetAggregate(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var agg model.Aggregate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agg))
	v, ok := agg.Lookup("2020-01-01")
	require.True(t, ok)
	assert.Equal(t, 8.0, v)
}

func TestGetAggregateDefaultsToSum(t *testing.T) {
	SetDataset(testTable())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/aggregate?group_by=country&metric=new_cases", nil)
	rec := httptest.NewRecorder()
	GetAggregate(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var agg model.Aggregate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agg))
	assert.Equal(t, model.OpSum, agg.Op)
}

func TestGetAggregateUnknownKey(t *testing.T) {
	SetDataset(testTable())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/aggregate?group_by=continent&metric=new_cases", nil)
	rec := httptest.NewRecorder()
	GetAggregate(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown group key")
}

func TestChartTopCountries(t *testing.T) {
	SetDataset(testTable())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/charts/top-countries?limit=2", nil)
	rec := httptest.NewRecorder()
	ChartTopCountries(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Afghanistan")
}

func TestChartCountryTrend(t *testing.T) {
	SetDataset(testTable())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/charts/trend?country=Italy", nil)
	rec := httptest.NewRecorder()
	ChartCountryTrend(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Italy")
}

func TestChartCountryTrendRequiresCountry(t *testing.T) {
	SetDataset(testTable())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/charts/trend", nil)
	rec := httptest.NewRecorder()
	ChartCountryTrend(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadDatasetReplacesCurrent(t *testing.T) {
	SetDataset(nil)
	Configure(utils.NewOutputManager(t.TempDir()), t.TempDir())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "report.csv")
	require.NoError(t, err)
	fw.Write([]byte("Date_reported,Country_code,Country,WHO_region,New_cases,Cumulative_cases,New_deaths,Cumulative_deaths\n" +
		"2020-01-01,IT,Italy,EUR,3,3,1,1\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dataset", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	UploadDataset(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, dataset())
	assert.Equal(t, 1, dataset().Len())
}

func TestUploadDatasetRejectsUnparseable(t *testing.T) {
	Configure(utils.NewOutputManager(t.TempDir()), t.TempDir())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "junk.csv")
	require.NoError(t, err)
	fw.Write([]byte("this,is,not\na,report,file\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dataset", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	UploadDataset(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUploadDatasetRequiresFileField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dataset", nil)
	rec := httptest.NewRecorder()
	UploadDataset(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
