// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings, populated from EQUISUITE_* variables.
type Config struct {
	// ResultsDir is the root directory for run output.
	ResultsDir string `envconfig:"RESULTS_DIR" default:"results"`
	// DBPath is the run registry database. Defaults to
	// <results_dir>/equisuite.db when empty.
	DBPath string `envconfig:"DB_PATH"`

	// OtelEnabled turns on metric export over OTLP gRPC.
	OtelEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OtelEndpoint string `envconfig:"OTEL_ENDPOINT" default:"localhost:4317"`
	OtelInsecure bool   `envconfig:"OTEL_INSECURE" default:"true"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("equisuite", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.ResultsDir, "equisuite.db")
	}
	return &cfg, nil
}
