// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/streamflix/config.yaml",
	"/etc/streamflix/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Data: DataConfig{
			RatingsPath: "data/collab_movies.csv",
			ContentPath: "data/content_movies.csv",
			Loader:      LoaderCSV,
		},
		Recommend: RecommendConfig{
			Model:             "svd",
			Factors:           100,
			Epochs:            20,
			LearningRate:      0.005,
			Regularization:    0.02,
			InitStdDev:        0.1,
			Seed:              42,
			FitTimeout:        30 * time.Second,
			DefaultN:          5,
			MaxN:              100,
			MaxSeeds:          50,
			SampleSize:        6,
			MaxConcurrentFits: 1,
		},
		Media: MediaConfig{
			Enabled:             true,
			TMDBBaseURL:         "https://api.themoviedb.org/3",
			YouTubeBaseURL:      "https://www.googleapis.com/youtube/v3",
			Timeout:             5 * time.Second,
			RequestsPerSecond:   10,
			Burst:               5,
			CacheTTL:            24 * time.Hour,
			CachePath:           "",
			BreakerFailureRatio: 0.6,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Events: EventsConfig{
			Enabled:    true,
			BufferSize: 256,
		},
	}
}

// sliceConfigPaths lists koanf paths that accept comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources.
//
// Configuration is loaded in order (later sources override earlier):
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	// TMDB_API_KEY -> media.tmdb_api_key
	// RECOMMEND_FACTORS -> recommend.factors
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// processSliceFields converts comma-separated string values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Dataset
	"ratings_path": "data.ratings_path",
	"content_path": "data.content_path",
	"data_loader":  "data.loader",

	// Recommendation engine
	"recommend_model":               "recommend.model",
	"recommend_factors":             "recommend.factors",
	"recommend_epochs":              "recommend.epochs",
	"recommend_learning_rate":       "recommend.learning_rate",
	"recommend_regularization":      "recommend.regularization",
	"recommend_init_std_dev":        "recommend.init_std_dev",
	"recommend_seed":                "recommend.seed",
	"recommend_fit_timeout":         "recommend.fit_timeout",
	"recommend_default_n":           "recommend.default_n",
	"recommend_max_n":               "recommend.max_n",
	"recommend_max_seeds":           "recommend.max_seeds",
	"recommend_sample_size":         "recommend.sample_size",
	"recommend_max_concurrent_fits": "recommend.max_concurrent_fits",

	// Poster and trailer lookups
	"media_enabled":               "media.enabled",
	"tmdb_api_key":                "media.tmdb_api_key",
	"tmdb_base_url":               "media.tmdb_base_url",
	"youtube_api_key":             "media.youtube_api_key",
	"youtube_base_url":            "media.youtube_base_url",
	"media_timeout":               "media.timeout",
	"media_requests_per_second":   "media.requests_per_second",
	"media_burst":                 "media.burst",
	"media_cache_ttl":             "media.cache_ttl",
	"media_cache_path":            "media.cache_path",
	"media_breaker_failure_ratio": "media.breaker_failure_ratio",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Events
	"events_enabled":     "events.enabled",
	"events_buffer_size": "events.buffer_size",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return an empty string and are skipped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
