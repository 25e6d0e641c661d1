// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Data.RatingsPath != "data/collab_movies.csv" {
		t.Errorf("Data.RatingsPath = %q, want data/collab_movies.csv", cfg.Data.RatingsPath)
	}
	if cfg.Data.Loader != LoaderCSV {
		t.Errorf("Data.Loader = %q, want %q", cfg.Data.Loader, LoaderCSV)
	}
	if cfg.Recommend.Factors != 100 || cfg.Recommend.Epochs != 20 {
		t.Errorf("Recommend factors/epochs = %d/%d, want 100/20", cfg.Recommend.Factors, cfg.Recommend.Epochs)
	}
	if cfg.Recommend.Seed != 42 {
		t.Errorf("Recommend.Seed = %d, want 42", cfg.Recommend.Seed)
	}
	if cfg.Recommend.DefaultN != 5 {
		t.Errorf("Recommend.DefaultN = %d, want 5", cfg.Recommend.DefaultN)
	}
	if cfg.Recommend.SampleSize != 6 {
		t.Errorf("Recommend.SampleSize = %d, want 6", cfg.Recommend.SampleSize)
	}
	if cfg.Media.TMDBBaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("Media.TMDBBaseURL = %q", cfg.Media.TMDBBaseURL)
	}
	if cfg.Media.CacheTTL != 24*time.Hour {
		t.Errorf("Media.CacheTTL = %v, want 24h", cfg.Media.CacheTTL)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"*"}) {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() error = %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"TMDB_API_KEY", "media.tmdb_api_key"},
		{"YOUTUBE_API_KEY", "media.youtube_api_key"},
		{"RATINGS_PATH", "data.ratings_path"},
		{"RECOMMEND_FACTORS", "recommend.factors"},
		{"RECOMMEND_FIT_TIMEOUT", "recommend.fit_timeout"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"events_enabled", "events.enabled"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Run("env var path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, path)

		if got := findConfigFile(); got != path {
			t.Errorf("findConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("missing env path falls back", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
		orig := DefaultConfigPaths
		DefaultConfigPaths = []string{filepath.Join(t.TempDir(), "none.yaml")}
		defer func() { DefaultConfigPaths = orig }()

		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty", got)
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TMDB_API_KEY", "tmdb-secret")
	t.Setenv("RECOMMEND_FACTORS", "16")
	t.Setenv("RECOMMEND_LEARNING_RATE", "0.01")
	t.Setenv("RECOMMEND_FIT_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DATA_LOADER", "duckdb")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Media.TMDBAPIKey != "tmdb-secret" {
		t.Errorf("Media.TMDBAPIKey = %q, want tmdb-secret", cfg.Media.TMDBAPIKey)
	}
	if cfg.Recommend.Factors != 16 {
		t.Errorf("Recommend.Factors = %d, want 16", cfg.Recommend.Factors)
	}
	if cfg.Recommend.LearningRate != 0.01 {
		t.Errorf("Recommend.LearningRate = %v, want 0.01", cfg.Recommend.LearningRate)
	}
	if cfg.Recommend.FitTimeout != 5*time.Second {
		t.Errorf("Recommend.FitTimeout = %v, want 5s", cfg.Recommend.FitTimeout)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Data.Loader != LoaderDuckDB {
		t.Errorf("Data.Loader = %q, want duckdb", cfg.Data.Loader)
	}
	// untouched values keep defaults
	if cfg.Recommend.Epochs != 20 {
		t.Errorf("Recommend.Epochs = %d, want 20", cfg.Recommend.Epochs)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	content := `
server:
  port: 7000
recommend:
  model: baseline
  epochs: 5
media:
  enabled: false
security:
  cors_origins:
    - https://movies.example
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Recommend.Model != "baseline" || cfg.Recommend.Epochs != 5 {
		t.Errorf("Recommend = %+v, want baseline with 5 epochs", cfg.Recommend)
	}
	if cfg.Media.Enabled {
		t.Error("Media.Enabled = true, want false")
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"https://movies.example"}) {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "7100")
		cfg, err := LoadWithKoanf()
		if err != nil {
			t.Fatalf("LoadWithKoanf() error = %v", err)
		}
		if cfg.Server.Port != 7100 {
			t.Errorf("Server.Port = %d, want 7100", cfg.Server.Port)
		}
	})
}

func TestLoadWithKoanfValidationFailure(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HTTP_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want validation error")
	}
}
