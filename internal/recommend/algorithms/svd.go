// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package algorithms

import (
	"context"
	"math/rand"

	"github.com/tomtom215/streamflix/internal/recommend"
)

// SVDConfig contains configuration for the SVD model.
type SVDConfig struct {
	// NumFactors is the dimension of the latent factor vectors.
	// Default: 100.
	NumFactors int

	// NumEpochs is the number of SGD passes over the ratings.
	// Default: 20.
	NumEpochs int

	// LearningRate is the SGD step size for biases and factors.
	// Default: 0.005.
	LearningRate float64

	// Regularization is the L2 penalty for biases and factors.
	// Default: 0.02.
	Regularization float64

	// InitStdDev is the standard deviation of the factor initialization.
	// Default: 0.1.
	InitStdDev float64

	// Seed for reproducible fitting.
	// If 0, uses a default seed.
	Seed int64
}

// DefaultSVDConfig returns default SVD configuration.
func DefaultSVDConfig() SVDConfig {
	return SVDConfig{
		NumFactors:     100,
		NumEpochs:      20,
		LearningRate:   0.005,
		Regularization: 0.02,
		InitStdDev:     0.1,
		Seed:           42,
	}
}

// SVDConfigFrom maps engine configuration onto the model configuration.
func SVDConfigFrom(cfg *recommend.Config) SVDConfig {
	if cfg == nil {
		return DefaultSVDConfig()
	}
	return SVDConfig{
		NumFactors:     cfg.SVD.Factors,
		NumEpochs:      cfg.SVD.Epochs,
		LearningRate:   cfg.SVD.LearningRate,
		Regularization: cfg.SVD.Regularization,
		InitStdDev:     cfg.SVD.InitStdDev,
		Seed:           cfg.Seed,
	}
}

// SVD implements biased matrix factorization for explicit ratings, trained
// with stochastic gradient descent (the "SVD" of the Netflix prize literature).
//
// The estimate for user u and item i is:
//
//	r̂_ui = μ + b_u + b_i + p_u · q_i
//
// A user or item that was not part of the fitted snapshot contributes neither
// its bias nor its factor term.
type SVD struct {
	BaseAlgorithm
	config SVDConfig

	idx ratingIndex

	globalMean  float64
	userBias    []float64
	itemBias    []float64
	userFactors [][]float64
	itemFactors [][]float64
}

// NewSVD creates a new SVD model with the given configuration.
func NewSVD(cfg SVDConfig) *SVD {
	def := DefaultSVDConfig()
	if cfg.NumFactors <= 0 {
		cfg.NumFactors = def.NumFactors
	}
	if cfg.NumEpochs <= 0 {
		cfg.NumEpochs = def.NumEpochs
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = def.LearningRate
	}
	if cfg.Regularization < 0 {
		cfg.Regularization = def.Regularization
	}
	if cfg.InitStdDev < 0 {
		cfg.InitStdDev = def.InitStdDev
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}

	return &SVD{
		BaseAlgorithm: NewBaseAlgorithm("svd"),
		config:        cfg,
	}
}

// NewSVDFactory returns a factory producing fresh SVD models for each request.
func NewSVDFactory(cfg SVDConfig) recommend.ModelFactory {
	return func() recommend.Model {
		return NewSVD(cfg)
	}
}

// Config returns the model configuration.
func (s *SVD) Config() SVDConfig {
	return s.config
}

// Fit performs a full retrain on the snapshot.
//
// Ratings are visited in snapshot order every epoch, so the same snapshot and
// seed always produce the same parameters.
func (s *SVD) Fit(ctx context.Context, snap *recommend.Snapshot) error {
	s.acquireFitLock()
	defer s.releaseFitLock()

	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	s.idx = newRatingIndex(snap)
	s.globalMean = s.idx.mean()

	numUsers := len(s.idx.users)
	numItems := len(s.idx.items)
	numFactors := s.config.NumFactors

	s.userBias = make([]float64, numUsers)
	s.itemBias = make([]float64, numItems)

	//nolint:gosec // G404: math/rand is acceptable for ML initialization (not security)
	rng := rand.New(rand.NewSource(s.config.Seed))

	s.userFactors = make([][]float64, numUsers)
	for u := range s.userFactors {
		s.userFactors[u] = make([]float64, numFactors)
		for f := range s.userFactors[u] {
			s.userFactors[u][f] = rng.NormFloat64() * s.config.InitStdDev
		}
	}

	s.itemFactors = make([][]float64, numItems)
	for i := range s.itemFactors {
		s.itemFactors[i] = make([]float64, numFactors)
		for f := range s.itemFactors[i] {
			s.itemFactors[i][f] = rng.NormFloat64() * s.config.InitStdDev
		}
	}

	lr := s.config.LearningRate
	reg := s.config.Regularization

	for epoch := 0; epoch < s.config.NumEpochs; epoch++ {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}

		for _, t := range s.idx.triples {
			pu := s.userFactors[t.user]
			qi := s.itemFactors[t.item]

			err := t.value - (s.globalMean + s.userBias[t.user] + s.itemBias[t.item] + dot(pu, qi))

			s.userBias[t.user] += lr * (err - reg*s.userBias[t.user])
			s.itemBias[t.item] += lr * (err - reg*s.itemBias[t.item])

			for f := 0; f < numFactors; f++ {
				puf := pu[f]
				qif := qi[f]
				pu[f] += lr * (err*qif - reg*puf)
				qi[f] += lr * (err*puf - reg*qif)
			}
		}
	}

	s.markFitted()
	return nil
}

// Predict returns the clamped rating estimate for userID on itemID.
func (s *SVD) Predict(userID, itemID int) (float64, error) {
	s.acquirePredictLock()
	defer s.releasePredictLock()

	if !s.fitted {
		return 0, &recommend.ModelNotFittedError{Model: s.name}
	}

	est := s.globalMean
	u, knownUser := s.idx.userIndex[userID]
	i, knownItem := s.idx.itemIndex[itemID]
	if knownUser {
		est += s.userBias[u]
	}
	if knownItem {
		est += s.itemBias[i]
	}
	if knownUser && knownItem {
		est += dot(s.userFactors[u], s.itemFactors[i])
	}

	return recommend.Clamp(est), nil
}

// GlobalMean returns the fitted mean rating.
func (s *SVD) GlobalMean() float64 {
	s.acquirePredictLock()
	defer s.releasePredictLock()
	return s.globalMean
}

// userVector returns a copy of the latent vector for userID.
func (s *SVD) userVector(userID int) ([]float64, bool) {
	s.acquirePredictLock()
	defer s.releasePredictLock()

	u, ok := s.idx.userIndex[userID]
	if !ok || !s.fitted {
		return nil, false
	}
	out := make([]float64, len(s.userFactors[u]))
	copy(out, s.userFactors[u])
	return out, true
}

// itemVector returns a copy of the latent vector for itemID.
func (s *SVD) itemVector(itemID int) ([]float64, bool) {
	s.acquirePredictLock()
	defer s.releasePredictLock()

	i, ok := s.idx.itemIndex[itemID]
	if !ok || !s.fitted {
		return nil, false
	}
	out := make([]float64, len(s.itemFactors[i]))
	copy(out, s.itemFactors[i])
	return out, true
}

// ratingIndex is the compact, order-preserving view of a snapshot.
type ratingIndex struct {
	userIndex map[int]int
	itemIndex map[int]int
	users     []int
	items     []int
	triples   []triple
}

type triple struct {
	user  int
	item  int
	value float64
}

// newRatingIndex assigns dense indices to users and items in first-seen order.
func newRatingIndex(snap *recommend.Snapshot) ratingIndex {
	idx := ratingIndex{
		userIndex: make(map[int]int),
		itemIndex: make(map[int]int),
	}
	if snap == nil {
		return idx
	}

	idx.triples = make([]triple, 0, snap.Len())
	for n := 0; n < snap.Len(); n++ {
		r := snap.At(n)
		u, ok := idx.userIndex[r.UserID]
		if !ok {
			u = len(idx.users)
			idx.userIndex[r.UserID] = u
			idx.users = append(idx.users, r.UserID)
		}
		i, ok := idx.itemIndex[r.ItemID]
		if !ok {
			i = len(idx.items)
			idx.itemIndex[r.ItemID] = i
			idx.items = append(idx.items, r.ItemID)
		}
		idx.triples = append(idx.triples, triple{user: u, item: i, value: r.Value})
	}
	return idx
}

// mean returns the average rating, or the scale midpoint when there are none.
func (idx *ratingIndex) mean() float64 {
	if len(idx.triples) == 0 {
		return (recommend.MinRating + recommend.MaxRating) / 2
	}
	var sum float64
	for _, t := range idx.triples {
		sum += t.value
	}
	return sum / float64(len(idx.triples))
}
