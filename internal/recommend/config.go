// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Supported model names.
const (
	ModelSVD      = "svd"
	ModelBaseline = "baseline"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Model selects the rating predictor: "svd" or "baseline".
	// Default: "svd".
	Model string `json:"model"`

	// SVD contains parameters for the latent factor model.
	SVD SVDConfig `json:"svd"`

	// Training contains model fitting parameters.
	Training TrainingConfig `json:"training"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Seed is the random seed for deterministic fitting.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// SVDConfig contains parameters for the biased matrix factorization model.
type SVDConfig struct {
	// Factors is the number of latent factors.
	// Default: 100.
	Factors int `json:"factors"`

	// Epochs is the number of SGD passes over the ratings.
	// Default: 20.
	Epochs int `json:"epochs"`

	// LearningRate is the SGD step size.
	// Default: 0.005.
	LearningRate float64 `json:"learning_rate"`

	// Regularization is the L2 penalty on biases and factors.
	// Default: 0.02.
	Regularization float64 `json:"regularization"`

	// InitStdDev is the standard deviation of the normal factor initialization.
	// Default: 0.1.
	InitStdDev float64 `json:"init_std_dev"`
}

// TrainingConfig contains model fitting parameters.
type TrainingConfig struct {
	// FitTimeout bounds a single retrain. Zero disables the bound.
	// Default: 30s.
	FitTimeout time.Duration `json:"fit_timeout"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultN is the number of recommendations the API asks for when a
	// request does not specify one. The engine itself rejects N < 1.
	// Default: 5.
	DefaultN int `json:"default_n"`

	// MaxN caps the number of recommendations per request.
	// Default: 100.
	MaxN int `json:"max_n"`

	// MaxSeeds caps the number of seed ratings per request.
	// Default: 50.
	MaxSeeds int `json:"max_seeds"`

	// MaxConcurrentFits bounds how many retrains may run at once.
	// Default: 1.
	MaxConcurrentFits int `json:"max_concurrent_fits"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelSVD,
		SVD: SVDConfig{
			Factors:        100,
			Epochs:         20,
			LearningRate:   0.005,
			Regularization: 0.02,
			InitStdDev:     0.1,
		},
		Training: TrainingConfig{
			FitTimeout: 30 * time.Second,
		},
		Limits: LimitsConfig{
			DefaultN:          5,
			MaxN:              100,
			MaxSeeds:          50,
			MaxConcurrentFits: 1,
		},
		Seed: 42, // Default seed for determinism
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Model {
	case ModelSVD, ModelBaseline:
	default:
		return fmt.Errorf("model must be %q or %q, got %q", ModelSVD, ModelBaseline, c.Model)
	}

	if c.SVD.Factors < 1 {
		return fmt.Errorf("svd.factors must be positive, got %d", c.SVD.Factors)
	}
	if c.SVD.Epochs < 1 {
		return fmt.Errorf("svd.epochs must be positive, got %d", c.SVD.Epochs)
	}
	if c.SVD.LearningRate <= 0 {
		return fmt.Errorf("svd.learning_rate must be positive, got %f", c.SVD.LearningRate)
	}
	if c.SVD.Regularization < 0 {
		return fmt.Errorf("svd.regularization must be non-negative, got %f", c.SVD.Regularization)
	}
	if c.SVD.InitStdDev < 0 {
		return fmt.Errorf("svd.init_std_dev must be non-negative, got %f", c.SVD.InitStdDev)
	}

	if c.Training.FitTimeout < 0 {
		return fmt.Errorf("training.fit_timeout must be non-negative, got %v", c.Training.FitTimeout)
	}

	if c.Limits.DefaultN < 1 {
		return fmt.Errorf("limits.default_n must be positive, got %d", c.Limits.DefaultN)
	}
	if c.Limits.MaxN < c.Limits.DefaultN {
		return fmt.Errorf("limits.max_n must be >= limits.default_n, got %d < %d", c.Limits.MaxN, c.Limits.DefaultN)
	}
	if c.Limits.MaxSeeds < 1 {
		return fmt.Errorf("limits.max_seeds must be positive, got %d", c.Limits.MaxSeeds)
	}
	if c.Limits.MaxConcurrentFits < 1 {
		return fmt.Errorf("limits.max_concurrent_fits must be positive, got %d", c.Limits.MaxConcurrentFits)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	return &Config{
		Model:    c.Model,
		SVD:      c.SVD,
		Training: c.Training,
		Limits:   c.Limits,
		Seed:     c.Seed,
	}
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		Training struct {
			FitTimeout string `json:"fit_timeout"`
		} `json:"training"`
	}{
		Alias: (*Alias)(c),
		Training: struct {
			FitTimeout string `json:"fit_timeout"`
		}{
			FitTimeout: c.Training.FitTimeout.String(),
		},
	})
}
