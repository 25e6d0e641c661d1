// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

// Package recommend implements the hybrid movie recommendation engine.
//
// # Architecture
//
// The engine blends collaborative signal (other users' ratings) with content
// metadata (genres) and is built from four leaf-first components:
//
//   - RatingStore: the historical (user, item, rating) triples, append-only per request
//   - Model: a latent factor predictor fitted over a Snapshot of the store
//   - Catalog: the immutable item index (lookup, popularity, search, genre browse)
//   - Engine: cold-start orchestration for a synthetic user
//
// # Cold Start Flow
//
// A request carries a handful of seed ratings from a user with no history.
// The engine allocates a synthetic user id greater than every known user,
// appends the seeds to a private snapshot, fully retrains a fresh model on
// that snapshot, scores every catalog item the synthetic user has not rated,
// ranks by predicted rating (ties broken by ascending item id), applies the
// optional genre post-filter and returns the top N.
//
// # Determinism
//
// Model fitting is seeded (default 42) and visits ratings in snapshot order,
// so identical inputs produce identical rankings.
//
// # Thread Safety
//
// Catalog and Snapshot values are read-only once built and may be shared.
// Every Recommend call builds its own model from the configured ModelFactory;
// fits are bounded by a semaphore (Limits.MaxConcurrentFits).
//
// # Usage
//
//	catalog := recommend.NewCatalog(items)
//	store, err := recommend.NewRatingStore(catalog, ratings)
//	engine, err := recommend.NewEngine(cfg, catalog, store, func() recommend.Model {
//	    return algorithms.NewSVD(algorithms.SVDConfigFrom(cfg))
//	}, logger)
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    Seeds: []recommend.SeedRating{{ItemID: 1, Value: 4.5}},
//	    N:     5,
//	})
package recommend
