// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/streamflix/internal/logging"
)

// Validate checks that all configuration values are within supported ranges.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateData(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateEvents()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic, disabled")
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateData() error {
	if c.Data.RatingsPath == "" {
		return fmt.Errorf("RATINGS_PATH is required")
	}
	if c.Data.ContentPath == "" {
		return fmt.Errorf("CONTENT_PATH is required")
	}
	if c.Data.Loader != LoaderCSV && c.Data.Loader != LoaderDuckDB {
		return fmt.Errorf("DATA_LOADER must be %q or %q, got %q", LoaderCSV, LoaderDuckDB, c.Data.Loader)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	switch {
	case r.Model != "svd" && r.Model != "baseline":
		return fmt.Errorf("RECOMMEND_MODEL must be svd or baseline, got %q", r.Model)
	case r.Factors < 1:
		return fmt.Errorf("RECOMMEND_FACTORS must be at least 1")
	case r.Epochs < 1:
		return fmt.Errorf("RECOMMEND_EPOCHS must be at least 1")
	case r.LearningRate <= 0:
		return fmt.Errorf("RECOMMEND_LEARNING_RATE must be positive")
	case r.Regularization < 0:
		return fmt.Errorf("RECOMMEND_REGULARIZATION must not be negative")
	case r.InitStdDev < 0:
		return fmt.Errorf("RECOMMEND_INIT_STD_DEV must not be negative")
	case r.FitTimeout < 0:
		return fmt.Errorf("RECOMMEND_FIT_TIMEOUT must not be negative")
	case r.MaxN < 1:
		return fmt.Errorf("RECOMMEND_MAX_N must be at least 1")
	case r.DefaultN < 1 || r.DefaultN > r.MaxN:
		return fmt.Errorf("RECOMMEND_DEFAULT_N must be between 1 and RECOMMEND_MAX_N (%d)", r.MaxN)
	case r.MaxSeeds < 1:
		return fmt.Errorf("RECOMMEND_MAX_SEEDS must be at least 1")
	case r.SampleSize < 1:
		return fmt.Errorf("RECOMMEND_SAMPLE_SIZE must be at least 1")
	case r.MaxConcurrentFits < 1:
		return fmt.Errorf("RECOMMEND_MAX_CONCURRENT_FITS must be at least 1")
	}
	return nil
}

func (c *Config) validateMedia() error {
	m := c.Media
	if !m.Enabled {
		return nil
	}
	if err := validateHTTPURL(m.TMDBBaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if err := validateHTTPURL(m.YouTubeBaseURL, "YOUTUBE_BASE_URL"); err != nil {
		return err
	}
	if m.Timeout <= 0 {
		return fmt.Errorf("MEDIA_TIMEOUT must be positive")
	}
	if m.RequestsPerSecond <= 0 {
		return fmt.Errorf("MEDIA_REQUESTS_PER_SECOND must be positive")
	}
	if m.Burst < 1 {
		return fmt.Errorf("MEDIA_BURST must be at least 1")
	}
	if m.CacheTTL < 0 {
		return fmt.Errorf("MEDIA_CACHE_TTL must not be negative")
	}
	if m.BreakerFailureRatio <= 0 || m.BreakerFailureRatio > 1 {
		return fmt.Errorf("MEDIA_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	return nil
}

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 1000000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Events.Enabled && c.Events.BufferSize < 0 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must not be negative")
	}
	return nil
}

// validateHTTPURL checks that rawURL is an http(s) URL without a query string.
// API base URLs such as https://api.themoviedb.org/3 carry a version path.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}

// HasWildcardCORS reports whether any allowed origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}
