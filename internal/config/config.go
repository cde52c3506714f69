package config

import (
	"os"
	"strconv"

	"healthstudy/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input      InputConfig
	Analysis   AnalysisConfig
	Simulation SimulationConfig
}

// InputConfig holds dataset source settings
type InputConfig struct {
	Path      string
	Delimiter string
	Sheet     string // Excel sheet name, empty for first sheet
}

// AnalysisConfig holds statistical analysis settings
type AnalysisConfig struct {
	Confidence  float64 // confidence level for intervals, e.g. 0.95
	Alpha       float64 // significance level for hypothesis tests
	GroupColumn string  // categorical column for grouped statistics
}

// SimulationConfig holds Monte Carlo simulation settings
type SimulationConfig struct {
	Seed                int64
	SampleSize          int
	BootstrapReplicates int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Input: InputConfig{
			Path:      getEnv("HEALTHSTUDY_INPUT", "data/health_study.csv"),
			Delimiter: getEnv("HEALTHSTUDY_DELIMITER", ","),
			Sheet:     getEnv("HEALTHSTUDY_SHEET", ""),
		},
		Analysis: AnalysisConfig{
			Confidence:  getEnvFloat("HEALTHSTUDY_CONFIDENCE", 0.95),
			Alpha:       getEnvFloat("HEALTHSTUDY_ALPHA", 0.05),
			GroupColumn: getEnv("HEALTHSTUDY_GROUP_COLUMN", "sex"),
		},
		Simulation: SimulationConfig{
			Seed:                getEnvInt64("HEALTHSTUDY_SEED", 42),
			SampleSize:          getEnvInt("HEALTHSTUDY_SAMPLE_SIZE", 1000),
			BootstrapReplicates: getEnvInt("HEALTHSTUDY_BOOTSTRAP_REPLICATES", 10000),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return errors.ConfigInvalid("input path must not be empty")
	}
	if len(c.Input.Delimiter) != 1 {
		return errors.ConfigInvalid("delimiter must be a single character")
	}
	if c.Analysis.Confidence <= 0 || c.Analysis.Confidence >= 1 {
		return errors.ConfigInvalid("confidence level must be in (0, 1)")
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("alpha must be in (0, 1)")
	}
	if c.Simulation.SampleSize < 0 {
		return errors.ConfigInvalid("sample size must be non-negative")
	}
	if c.Simulation.BootstrapReplicates < 1 {
		return errors.ConfigInvalid("bootstrap replicates must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
