// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package algorithms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/streamflix/internal/recommend"
)

// BaseAlgorithm provides common functionality for all models.
type BaseAlgorithm struct {
	name         string
	fitted       bool
	version      int
	lastFittedAt time.Time
	mu           sync.RWMutex
}

// NewBaseAlgorithm creates a new base algorithm with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{
		name: name,
	}
}

// Name returns the algorithm identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// IsFitted returns whether the model has been fitted.
func (b *BaseAlgorithm) IsFitted() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fitted
}

// Version returns how many times the model has been fitted.
func (b *BaseAlgorithm) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// LastFittedAt returns when the model was last fitted.
func (b *BaseAlgorithm) LastFittedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastFittedAt
}

// markFitted updates the fitted state.
// Must be called while holding the fit lock (acquireFitLock).
func (b *BaseAlgorithm) markFitted() {
	b.fitted = true
	b.version++
	b.lastFittedAt = time.Now()
}

// acquireFitLock acquires the exclusive fit lock.
func (b *BaseAlgorithm) acquireFitLock() {
	b.mu.Lock()
}

// releaseFitLock releases the exclusive fit lock.
func (b *BaseAlgorithm) releaseFitLock() {
	b.mu.Unlock()
}

// acquirePredictLock acquires the shared prediction lock.
func (b *BaseAlgorithm) acquirePredictLock() {
	b.mu.RLock()
}

// releasePredictLock releases the shared prediction lock.
func (b *BaseAlgorithm) releasePredictLock() {
	b.mu.RUnlock()
}

// dot returns the inner product of two equal-length vectors.
func dot(a, b []float64) float64 {
	var sum float64
	for f := range a {
		sum += a[f] * b[f]
	}
	return sum
}

// Ensure all models implement the interface.
var (
	_ recommend.Model = (*SVD)(nil)
	_ recommend.Model = (*Baseline)(nil)
)

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// NewFactory returns the model factory selected by cfg.Model.
func NewFactory(cfg *recommend.Config) (recommend.ModelFactory, error) {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	switch cfg.Model {
	case recommend.ModelSVD, "":
		return NewSVDFactory(SVDConfigFrom(cfg)), nil
	case recommend.ModelBaseline:
		return NewBaselineFactory(SVDConfigFrom(cfg)), nil
	default:
		return nil, fmt.Errorf("unknown model %q", cfg.Model)
	}
}
