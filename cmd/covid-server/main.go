package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"covid-insights/internal/api"
	"covid-insights/internal/api/handler"
	"covid-insights/internal/config"
	"covid-insights/internal/model"
	"covid-insights/internal/pipeline"
	"covid-insights/internal/store"
	"covid-insights/pkg/router"
	"covid-insights/pkg/utils"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "covid-insights/docs"
)

// @title COVID Insights API
// @version 1.0
// @description Exploratory analysis over WHO COVID-19 daily reports: dataset widgets, on-demand aggregates, charts and persisted analysis runs.
// @BasePath /api/v1
func main() {
	cfgPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := store.InitDB(cfg.Output.DBPath); err != nil {
		logger.Error("Failed to open run store", "path", cfg.Output.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	table, err := loadStartupDataset(cfg)
	if err != nil {
		logger.Error("Failed to load dataset", "path", cfg.Dataset.Path, "error", err)
		os.Exit(1)
	}
	handler.SetDataset(table)
	handler.Configure(utils.NewOutputManager(cfg.Output.Dir), "uploads")

	logger.Info("Dataset ready",
		slog.String("source", table.Source),
		slog.Int("rows", table.Len()),
		slog.Int("countries", len(table.Countries())))

	r := router.New()
	api.RegisterRoutes(r)
	r.GET("/swagger/*", httpSwagger.WrapHandler.ServeHTTP)

	r.Start(cfg.Addr())
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// loadStartupDataset reads the configured report (or the built-in sample)
// and applies the default clean/sample settings once at boot. Uploads and
// query parameters can change things later.
func loadStartupDataset(cfg *config.Config) (*model.Table, error) {
	var table *model.Table
	var err error
	if cfg.Dataset.Path == "" {
		table, err = pipeline.LoadBuiltinSample()
	} else {
		table, err = pipeline.LoadTable(cfg.Dataset.Path)
	}
	if err != nil {
		return nil, err
	}

	table, err = pipeline.Clean(table, cfg.Dataset.FillMissing)
	if err != nil {
		return nil, err
	}
	if cfg.Dataset.SamplePercent > 0 {
		table = pipeline.Sample(table, cfg.Dataset.SamplePercent, 0)
	}
	return table, nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
