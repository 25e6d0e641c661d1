// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamflix/internal/config"
	"github.com/tomtom215/streamflix/internal/dataset"
	"github.com/tomtom215/streamflix/internal/metrics"
	"github.com/tomtom215/streamflix/internal/recommend"
	"github.com/tomtom215/streamflix/internal/recommend/algorithms"
)

// buildEngineConfig maps the recommend section of the service config onto
// the engine configuration.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	return &recommend.Config{
		Model: rc.Model,
		SVD: recommend.SVDConfig{
			Factors:        rc.Factors,
			Epochs:         rc.Epochs,
			LearningRate:   rc.LearningRate,
			Regularization: rc.Regularization,
			InitStdDev:     rc.InitStdDev,
		},
		Training: recommend.TrainingConfig{
			FitTimeout: rc.FitTimeout,
		},
		Limits: recommend.LimitsConfig{
			DefaultN:          rc.DefaultN,
			MaxN:              rc.MaxN,
			MaxSeeds:          rc.MaxSeeds,
			MaxConcurrentFits: rc.MaxConcurrentFits,
		},
		Seed: rc.Seed,
	}
}

// initEngine loads the dataset and builds the recommendation engine.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*recommend.Engine, error) {
	loader, err := dataset.NewLoader(cfg.Data)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ds, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	logger.Info().
		Str("loader", cfg.Data.Loader).
		Int("movies", len(ds.Items)).
		Int("ratings", len(ds.Ratings)).
		Int("users", ds.Users).
		Int("dropped_content", ds.DroppedContent).
		Dur("duration", time.Since(start)).
		Msg("Dataset loaded")

	catalog := recommend.NewCatalog(ds.Items)
	store, err := recommend.NewRatingStore(catalog, ds.Ratings)
	if err != nil {
		return nil, fmt.Errorf("build rating store: %w", err)
	}
	metrics.SetDatasetSize(catalog.Len(), store.Len())

	engineCfg := buildEngineConfig(cfg)
	factory, err := algorithms.NewFactory(engineCfg)
	if err != nil {
		return nil, err
	}

	engine, err := recommend.NewEngine(engineCfg, catalog, store, factory, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	logger.Info().
		Str("model", engineCfg.Model).
		Int("factors", engineCfg.SVD.Factors).
		Int("epochs", engineCfg.SVD.Epochs).
		Dur("fit_timeout", engineCfg.Training.FitTimeout).
		Msg("Recommendation engine initialized")
	return engine, nil
}
