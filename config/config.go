package config

import (
	"fmt"

	"github.com/poiesic/specmatch/core"
	"github.com/poiesic/specmatch/engine"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	AI       AIConfig
	Matching MatchingConfig
}

// DatabaseConfig holds storage-related configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AIConfig holds embedding and extraction service configuration
type AIConfig struct {
	EmbeddingHost  string `mapstructure:"embedding_host"`
	ExtractorHost  string `mapstructure:"extractor_host"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	ExtractorModel string `mapstructure:"extractor_model"`
}

// MatchingConfig holds weight, threshold, and pipeline tuning parameters
type MatchingConfig struct {
	Weights        map[string]float64 `mapstructure:"weights"`
	ExactMatch     float64            `mapstructure:"exact_match_threshold"`
	PartialMatch   float64            `mapstructure:"partial_match_threshold"`
	TopK           int                `mapstructure:"top_k"`
	TopN           int                `mapstructure:"top_n"`
	MinViableScore float64            `mapstructure:"min_viable_score"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration, preferring an explicit config file path
// when one is given.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("specmatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/specmatch/")
	}

	// Environment variable settings
	v.SetEnvPrefix("SPECMATCH")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "./specmatch-db")

	// AI defaults
	v.SetDefault("ai.embedding_host", "http://localhost:11434/v1")
	v.SetDefault("ai.extractor_host", "http://localhost:11434/v1")
	v.SetDefault("ai.embedding_model", "embeddinggemma")
	v.SetDefault("ai.extractor_model", "qwen2.5:3b")

	// Matching defaults
	weights := engine.DefaultWeights()
	defaults := make(map[string]float64, len(weights))
	for key, weight := range weights {
		defaults[string(key)] = weight
	}
	v.SetDefault("matching.weights", defaults)

	thresholds := engine.DefaultThresholds()
	v.SetDefault("matching.exact_match_threshold", thresholds.ExactMatch)
	v.SetDefault("matching.partial_match_threshold", thresholds.PartialMatch)
	v.SetDefault("matching.top_k", 5)
	v.SetDefault("matching.top_n", 3)
	v.SetDefault("matching.min_viable_score", 60.0)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.Path == "" {
		return fmt.Errorf("database path is required (set SPECMATCH_DATABASE_PATH)")
	}

	if err := config.Weights().Validate(); err != nil {
		return err
	}
	if err := config.Thresholds().Validate(); err != nil {
		return err
	}

	if config.Matching.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got: %d", config.Matching.TopK)
	}
	if config.Matching.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1, got: %d", config.Matching.TopN)
	}
	if config.Matching.MinViableScore < 0 || config.Matching.MinViableScore > 100 {
		return fmt.Errorf("min_viable_score must be within [0,100], got: %g", config.Matching.MinViableScore)
	}

	return nil
}

// Weights converts the configured weight table into engine form.
func (c *Config) Weights() engine.Weights {
	weights := make(engine.Weights, len(c.Matching.Weights))
	for key, weight := range c.Matching.Weights {
		weights[core.AttributeKey(key)] = weight
	}
	return weights
}

// Thresholds converts the configured thresholds into engine form.
func (c *Config) Thresholds() engine.Thresholds {
	return engine.Thresholds{
		ExactMatch:   c.Matching.ExactMatch,
		PartialMatch: c.Matching.PartialMatch,
	}
}
