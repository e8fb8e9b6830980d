package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the full server configuration. Values come from an optional
// YAML file, overridden by COVID_-prefixed environment variables, with
// defaults baked into the struct tags.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Dataset DatasetConfig `yaml:"dataset" envconfig:"DATASET"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port" envconfig:"PORT" default:"8080"`
}

// DatasetConfig controls the dataset loaded at startup and default
// pipeline options.
type DatasetConfig struct {
	// Path to a CSV/TSV/XLSX report; empty means the built-in sample.
	Path string `yaml:"path" envconfig:"PATH"`
	// SamplePercent is the default random sample size (0 = off).
	SamplePercent int `yaml:"sample_percent" envconfig:"SAMPLE_PERCENT" default:"0"`
	// FillMissing is the default missing-value policy.
	FillMissing string `yaml:"fill_missing" envconfig:"FILL_MISSING" default:"keep"`
}

// OutputConfig controls where run artifacts and the run store live.
type OutputConfig struct {
	Dir    string `yaml:"dir" envconfig:"DIR" default:"outputs"`
	DBPath string `yaml:"db_path" envconfig:"DB_PATH" default:"covid.db"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text"`
}

// Load reads configuration from the environment only.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("COVID", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads a YAML config file first, then lets environment
// variables override it.
func LoadFromFile(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := envconfig.Process("COVID", &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
