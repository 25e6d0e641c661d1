// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

/*
Package config provides layered configuration for the Streamflix server.

Configuration is loaded with Koanf v2 in three layers, each overriding the
previous one:

 1. Defaults compiled into defaultConfig()
 2. An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/streamflix/config.yaml)
 3. Environment variables mapped explicitly in envTransformFunc

Example:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal("Failed to load config:", err)
	}
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
*/
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Media     MediaConfig     `koanf:"media"`
	Security  SecurityConfig  `koanf:"security"`
	Events    EventsConfig    `koanf:"events"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Dataset loaders.
const (
	LoaderCSV    = "csv"
	LoaderDuckDB = "duckdb"
)

// DataConfig locates the ratings and content tables loaded at startup.
type DataConfig struct {
	RatingsPath string `koanf:"ratings_path"`
	ContentPath string `koanf:"content_path"`
	// Loader is "csv" or "duckdb". DuckDB also reads Parquet files.
	Loader string `koanf:"loader"`
}

// RecommendConfig holds model and engine settings.
type RecommendConfig struct {
	Model             string        `koanf:"model"`
	Factors           int           `koanf:"factors"`
	Epochs            int           `koanf:"epochs"`
	LearningRate      float64       `koanf:"learning_rate"`
	Regularization    float64       `koanf:"regularization"`
	InitStdDev        float64       `koanf:"init_std_dev"`
	Seed              int64         `koanf:"seed"`
	FitTimeout        time.Duration `koanf:"fit_timeout"`
	DefaultN          int           `koanf:"default_n"`
	MaxN              int           `koanf:"max_n"`
	MaxSeeds          int           `koanf:"max_seeds"`
	SampleSize        int           `koanf:"sample_size"`
	MaxConcurrentFits int           `koanf:"max_concurrent_fits"`
}

// MediaConfig holds poster and trailer lookup settings.
type MediaConfig struct {
	Enabled           bool          `koanf:"enabled"`
	TMDBAPIKey        string        `koanf:"tmdb_api_key"`
	TMDBBaseURL       string        `koanf:"tmdb_base_url"`
	YouTubeAPIKey     string        `koanf:"youtube_api_key"`
	YouTubeBaseURL    string        `koanf:"youtube_base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	// CachePath is the BadgerDB directory. Empty keeps the cache in memory only.
	CachePath           string  `koanf:"cache_path"`
	BreakerFailureRatio float64 `koanf:"breaker_failure_ratio"`
}

// SecurityConfig holds CORS and inbound rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// EventsConfig holds in-process event bus settings.
type EventsConfig struct {
	Enabled    bool  `koanf:"enabled"`
	BufferSize int64 `koanf:"buffer_size"`
}

// Load reads configuration from defaults, the optional config file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
