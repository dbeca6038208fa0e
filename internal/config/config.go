package config

import (
	"os"
	"strconv"
	"strings"

	"churnscope/domain/churn"
	"churnscope/domain/core"
)

// Config represents the complete pipeline configuration
type Config struct {
	Paths    PathConfig
	Run      RunConfig
	Forest   ForestConfig
	CrossVal CrossValConfig
	Cost     CostConfig
	Database DatabaseConfig
}

// PathConfig holds file system paths. Both are explicit parameters; the
// pipeline never consults a working directory implicitly.
type PathConfig struct {
	InputFile string
	OutputDir string
}

// RunConfig holds the resampling parameters of a run
type RunConfig struct {
	Seed          int64
	TrainFraction float64
	Threshold     float64 // baseline decision threshold
}

// ForestConfig holds the random-forest training options
type ForestConfig struct {
	NumTrees         int
	FeaturesPerSplit int // 0 means floor(sqrt(num_features))
}

// CrossValConfig holds the repeated k-fold settings
type CrossValConfig struct {
	Enabled bool
	Folds   int
	Repeats int
}

// CostConfig holds the cost sweep parameters
type CostConfig struct {
	Unit         churn.CostConfig
	CustomerBase int
}

// DatabaseConfig holds optional run-summary persistence settings
type DatabaseConfig struct {
	URL string // empty disables persistence
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Paths: PathConfig{
			InputFile: getEnv("CHURN_INPUT_FILE", "data/telco_customers.csv"),
			OutputDir: getEnv("CHURN_OUTPUT_DIR", "out"),
		},
		Run: RunConfig{
			Seed:          getEnvInt64("CHURN_SEED", 2017),
			TrainFraction: getEnvFloat("CHURN_TRAIN_FRACTION", 0.75),
			Threshold:     getEnvFloat("CHURN_THRESHOLD", 0.5),
		},
		Forest: ForestConfig{
			NumTrees:         getEnvInt("CHURN_FOREST_TREES", 500),
			FeaturesPerSplit: getEnvInt("CHURN_FOREST_MTRY", 0),
		},
		CrossVal: CrossValConfig{
			Enabled: getEnvBool("CHURN_CV_ENABLED", true),
			Folds:   getEnvInt("CHURN_CV_FOLDS", 10),
			Repeats: getEnvInt("CHURN_CV_REPEATS", 3),
		},
		Cost: CostConfig{
			Unit: churn.CostConfig{
				FalseNegative: getEnvFloat("CHURN_COST_FN", 300),
				FalsePositive: getEnvFloat("CHURN_COST_FP", 60),
				TruePositive:  getEnvFloat("CHURN_COST_TP", 60),
				TrueNegative:  getEnvFloat("CHURN_COST_TN", 0),
			},
			CustomerBase: getEnvInt("CHURN_CUSTOMER_BASE", 500000),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks all configuration invariants
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.InputFile) == "" {
		return core.NewConfigurationError("CHURN_INPUT_FILE", "input file path is required")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return core.NewConfigurationError("CHURN_OUTPUT_DIR", "output directory is required")
	}
	if c.Run.TrainFraction <= 0 || c.Run.TrainFraction >= 1 {
		return core.NewConfigurationError("CHURN_TRAIN_FRACTION", "must be in (0,1)")
	}
	if c.Run.Threshold < 0 || c.Run.Threshold > 1 {
		return core.NewConfigurationError("CHURN_THRESHOLD", "must be in [0,1]")
	}
	if c.Forest.NumTrees <= 0 {
		return core.NewConfigurationError("CHURN_FOREST_TREES", "tree count must be positive")
	}
	if c.Forest.FeaturesPerSplit < 0 {
		return core.NewConfigurationError("CHURN_FOREST_MTRY", "features per split cannot be negative")
	}
	if c.CrossVal.Enabled {
		if c.CrossVal.Folds < 2 {
			return core.NewConfigurationError("CHURN_CV_FOLDS", "need at least 2 folds")
		}
		if c.CrossVal.Repeats < 1 {
			return core.NewConfigurationError("CHURN_CV_REPEATS", "need at least 1 repeat")
		}
	}
	if err := c.Cost.Unit.Validate(); err != nil {
		return err
	}
	if c.Cost.CustomerBase < 0 {
		return core.NewConfigurationError("CHURN_CUSTOMER_BASE", "customer base cannot be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
