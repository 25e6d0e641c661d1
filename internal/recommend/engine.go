// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// Metrics, events and media enrichment are layered on by callers using the
// Response metadata.

// candidateCheckInterval is how many candidates are scored between context checks.
const candidateCheckInterval = 256

// Engine produces cold-start recommendations for a synthetic user.
// It is safe for concurrent use: every call fits its own model.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	catalog *Catalog
	store   *RatingStore
	factory ModelFactory

	// fitSem bounds concurrent retrains.
	fitSem chan struct{}

	// Counters
	requestCount atomic.Int64
	errorCount   atomic.Int64
	fitCount     atomic.Int64
}

// Stats is a point-in-time view of engine counters.
type Stats struct {
	Requests    int64 `json:"requests"`
	Errors      int64 `json:"errors"`
	Fits        int64 `json:"fits"`
	CatalogSize int   `json:"catalog_size"`
	Ratings     int   `json:"ratings"`
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, catalog *Catalog, store *RatingStore, factory ModelFactory, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if store == nil {
		return nil, fmt.Errorf("rating store is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("model factory is required")
	}

	cfg = cfg.Clone()
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}

	return &Engine{
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		catalog: catalog,
		store:   store,
		factory: factory,
		fitSem:  make(chan struct{}, cfg.Limits.MaxConcurrentFits),
	}, nil
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Stats returns the current engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:    e.requestCount.Load(),
		Errors:      e.errorCount.Load(),
		Fits:        e.fitCount.Load(),
		CatalogSize: e.catalog.Len(),
		Ratings:     e.store.Len(),
	}
}

// Recommend generates recommendations for a new user from their seed ratings.
//
// The historical ratings are never modified; the synthetic user and its
// seeds only exist in the per-request snapshot and model.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Int("seeds", len(req.Seeds)).
		Int("n", req.N).
		Str("genre", req.Genre).
		Logger()

	if err := e.validateRequest(req); err != nil {
		e.errorCount.Add(1)
		logger.Debug().Err(err).Msg("rejected recommendation request")
		return nil, err
	}

	syntheticID := e.store.NextUserID()
	snap, err := e.store.Append(syntheticID, req.Seeds)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	model, fitDuration, err := e.fit(ctx, snap)
	if err != nil {
		e.errorCount.Add(1)
		logger.Warn().Err(err).Int("ratings", snap.Len()).Msg("model fit failed")
		return nil, err
	}

	candidates := e.candidates(snap.RatedBy(syntheticID))
	scored, err := e.score(ctx, model, syntheticID, candidates)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	rankScoredItems(scored)
	ranked := len(scored)
	scored = e.filterByGenre(scored, req.Genre)
	filtered := ranked - len(scored)

	if len(scored) > req.N {
		scored = scored[:req.N]
	}

	resp := &Response{
		Items:           scored,
		SyntheticUserID: syntheticID,
		RequestID:       req.RequestID,
		Metadata: ResponseMetadata{
			ModelName:        model.Name(),
			Seed:             e.config.Seed,
			SeedCount:        len(req.Seeds),
			CandidatesScored: len(candidates),
			Filtered:         filtered,
			FitDuration:      fitDuration,
			LatencyMS:        time.Since(start).Milliseconds(),
			GeneratedAt:      time.Now(),
		},
	}

	logger.Debug().
		Int("synthetic_user_id", syntheticID).
		Int("candidates", len(candidates)).
		Int("filtered", filtered).
		Int("returned", len(resp.Items)).
		Dur("fit_duration", fitDuration).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest normalizes the genre, caps N and generates a request ID if
// needed. N is not defaulted: callers resolve an omitted N themselves.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	if req.N > e.config.Limits.MaxN {
		req.N = e.config.Limits.MaxN
	}
	req.Genre = strings.TrimSpace(req.Genre)
	if strings.EqualFold(req.Genre, AllGenres) {
		req.Genre = ""
	}
	return req
}

// validateRequest checks the seed set before anything is built.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) validateRequest(req Request) error {
	if len(req.Seeds) == 0 {
		return ErrInsufficientSignal
	}
	if req.N < 1 {
		return &InvalidRequestError{Field: "n", Reason: "must be at least 1"}
	}
	if len(req.Seeds) > e.config.Limits.MaxSeeds {
		return &InvalidRequestError{
			Field:  "seeds",
			Reason: fmt.Sprintf("must contain at most %d ratings", e.config.Limits.MaxSeeds),
		}
	}

	seen := make(map[int]struct{}, len(req.Seeds))
	for _, seed := range req.Seeds {
		if !e.catalog.Contains(seed.ItemID) {
			return &UnknownItemError{ItemID: seed.ItemID}
		}
		if _, dup := seen[seed.ItemID]; dup {
			return &DuplicateItemError{ItemID: seed.ItemID}
		}
		if !ValidRatingValue(seed.Value) {
			return &InvalidRatingError{ItemID: seed.ItemID, Value: seed.Value}
		}
		seen[seed.ItemID] = struct{}{}
	}
	return nil
}

// fit builds a fresh model and fully retrains it on snap.
func (e *Engine) fit(ctx context.Context, snap *Snapshot) (Model, time.Duration, error) {
	select {
	case e.fitSem <- struct{}{}:
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("wait for fit slot: %w", ctx.Err())
	}
	defer func() { <-e.fitSem }()

	fitCtx := ctx
	if e.config.Training.FitTimeout > 0 {
		var cancel context.CancelFunc
		fitCtx, cancel = context.WithTimeout(ctx, e.config.Training.FitTimeout)
		defer cancel()
	}

	model := e.factory()
	start := time.Now()
	if err := model.Fit(fitCtx, snap); err != nil {
		return nil, time.Since(start), fmt.Errorf("fit %s: %w", model.Name(), err)
	}
	e.fitCount.Add(1)
	return model, time.Since(start), nil
}

// candidates returns every catalog id not in rated, ascending.
func (e *Engine) candidates(rated []int) []int {
	exclude := make(map[int]struct{}, len(rated))
	for _, id := range rated {
		exclude[id] = struct{}{}
	}

	ids := e.catalog.IDs()
	out := ids[:0]
	for _, id := range ids {
		if _, rated := exclude[id]; !rated {
			out = append(out, id)
		}
	}
	return out
}

// score predicts a rating for every candidate.
func (e *Engine) score(ctx context.Context, model Model, userID int, candidates []int) ([]ScoredItem, error) {
	scored := make([]ScoredItem, 0, len(candidates))
	for i, id := range candidates {
		if i%candidateCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		est, err := model.Predict(userID, id)
		if err != nil {
			if errors.Is(err, ErrModelNotFitted) {
				return nil, err
			}
			return nil, fmt.Errorf("predict item %d: %w", id, err)
		}
		scored = append(scored, ScoredItem{ItemID: id, Score: Clamp(est)})
	}
	return scored, nil
}

// rankScoredItems sorts by score descending with ascending item id as tie-break.
func rankScoredItems(items []ScoredItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ItemID < items[j].ItemID
	})
}

// filterByGenre keeps items matching genre without reordering.
func (e *Engine) filterByGenre(items []ScoredItem, genre string) []ScoredItem {
	if genre == "" {
		return items
	}
	out := make([]ScoredItem, 0, len(items))
	for _, si := range items {
		it, err := e.catalog.Lookup(si.ItemID)
		if err != nil {
			continue
		}
		if it.MatchesGenre(genre) {
			out = append(out, si)
		}
	}
	return out
}
