// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

// Package algorithms implements the rating prediction models used by the
// recommendation engine.
//
// # Models
//
//   - SVD: biased matrix factorization trained with SGD (default)
//   - Baseline: global mean plus user and item biases
//
// Both implement recommend.Model. A model instance is fitted once on a
// recommend.Snapshot and then queried; the engine builds a fresh instance
// per request through a recommend.ModelFactory.
//
// # Determinism
//
// Factor initialization draws from math/rand seeded with SVDConfig.Seed, and
// ratings are visited in snapshot order without shuffling. Two fits on the
// same snapshot with the same configuration produce identical predictions.
//
// # Usage Example
//
//	factory := algorithms.NewSVDFactory(algorithms.SVDConfigFrom(cfg))
//	engine, err := recommend.NewEngine(cfg, catalog, store, factory, logger)
//
// # Thread Safety
//
// Fit acquires an exclusive lock while Predict uses a shared lock, so a
// fitted model may be queried concurrently.
package algorithms
