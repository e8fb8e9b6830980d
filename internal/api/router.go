package api

import (
	"covid-insights/internal/api/handler"
	"covid-insights/pkg/router"
)

// RegisterRoutes mounts the dashboard API. More specific analysis routes
// come first so the generic /analyses/* wildcard matches last.
func RegisterRoutes(r *router.Router) {
	// Dataset widgets
	r.POST("/api/v1/dataset", handler.UploadDataset)
	r.GET("/api/v1/dataset/summary", handler.GetDatasetSummary)
	r.GET("/api/v1/dataset/preview", handler.PreviewDataset)
	r.GET("/api/v1/dataset/countries", handler.ListCountries)
	r.GET("/api/v1/dataset/regions", handler.ListRegions)

	// On-demand aggregates and charts
	r.GET("/api/v1/aggregate", handler.GetAggregate)
	r.GET("/api/v1/charts/top-countries", handler.ChartTopCountries)
	r.GET("/api/v1/charts/trend", handler.ChartCountryTrend)

	// Analysis runs
	r.POST("/api/v1/analyses", handler.CreateAnalysis)
	r.GET("/api/v1/analyses", handler.ListAnalyses)
	r.GET("/api/v1/analyses/*/results", handler.GetAnalysisResults)
	r.GET("/api/v1/analyses/*/artifacts", handler.GetAnalysisArtifacts)
	r.GET("/api/v1/analyses/*/errors", handler.GetAnalysisErrors)
	r.GET("/api/v1/analyses/*/progress", handler.GetAnalysisProgress)
	r.GET("/api/v1/analyses/*", handler.GetAnalysis)
	r.DELETE("/api/v1/analyses/*", handler.DeleteAnalysis)

	// Artifact downloads
	r.GET("/api/v1/download/*/*", handler.DownloadArtifact)
}
