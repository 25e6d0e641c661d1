// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package algorithms

import (
	"context"

	"github.com/tomtom215/streamflix/internal/recommend"
)

// Baseline predicts μ + b_u + b_i with biases learned by SGD. It is the SVD
// model without latent factors, useful as a cheap fallback and as a reference
// point when evaluating the factor model.
type Baseline struct {
	BaseAlgorithm
	config SVDConfig

	idx        ratingIndex
	globalMean float64
	userBias   []float64
	itemBias   []float64
}

// NewBaseline creates a bias-only model. NumFactors and InitStdDev are ignored.
func NewBaseline(cfg SVDConfig) *Baseline {
	def := DefaultSVDConfig()
	if cfg.NumEpochs <= 0 {
		cfg.NumEpochs = def.NumEpochs
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = def.LearningRate
	}
	if cfg.Regularization < 0 {
		cfg.Regularization = def.Regularization
	}
	return &Baseline{
		BaseAlgorithm: NewBaseAlgorithm("baseline"),
		config:        cfg,
	}
}

// NewBaselineFactory returns a factory producing fresh Baseline models.
func NewBaselineFactory(cfg SVDConfig) recommend.ModelFactory {
	return func() recommend.Model {
		return NewBaseline(cfg)
	}
}

// Fit learns user and item biases over the snapshot.
func (b *Baseline) Fit(ctx context.Context, snap *recommend.Snapshot) error {
	b.acquireFitLock()
	defer b.releaseFitLock()

	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	b.idx = newRatingIndex(snap)
	b.globalMean = b.idx.mean()
	b.userBias = make([]float64, len(b.idx.users))
	b.itemBias = make([]float64, len(b.idx.items))

	lr := b.config.LearningRate
	reg := b.config.Regularization
	for epoch := 0; epoch < b.config.NumEpochs; epoch++ {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}
		for _, t := range b.idx.triples {
			err := t.value - (b.globalMean + b.userBias[t.user] + b.itemBias[t.item])
			b.userBias[t.user] += lr * (err - reg*b.userBias[t.user])
			b.itemBias[t.item] += lr * (err - reg*b.itemBias[t.item])
		}
	}

	b.markFitted()
	return nil
}

// Predict returns the clamped bias estimate.
func (b *Baseline) Predict(userID, itemID int) (float64, error) {
	b.acquirePredictLock()
	defer b.releasePredictLock()

	if !b.fitted {
		return 0, &recommend.ModelNotFittedError{Model: b.name}
	}

	est := b.globalMean
	if u, ok := b.idx.userIndex[userID]; ok {
		est += b.userBias[u]
	}
	if i, ok := b.idx.itemIndex[itemID]; ok {
		est += b.itemBias[i]
	}
	return recommend.Clamp(est), nil
}
