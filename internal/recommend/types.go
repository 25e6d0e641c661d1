// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package recommend

import (
	"context"
	"math"
	"strings"
	"time"
)

// Rating scale bounds. Predictions are clamped to [MinRating, MaxRating];
// user-entered ratings must lie in [MinUserRating, MaxRating] on RatingStep.
const (
	MinRating     = 1.0
	MaxRating     = 5.0
	MinUserRating = 0.5
	RatingStep    = 0.5
)

// AllGenres is the browse option that disables genre filtering.
const AllGenres = "All"

// Rating is a single (user, item, rating) triple.
type Rating struct {
	// UserID identifies the rater.
	UserID int `json:"user_id"`

	// ItemID is the movie id. It must exist in the Catalog.
	ItemID int `json:"item_id"`

	// Value is the rating in [0.5, 5.0].
	Value float64 `json:"rating"`
}

// SeedRating is a rating entered by the requester for cold-start scoring.
type SeedRating struct {
	ItemID int     `json:"item_id"`
	Value  float64 `json:"rating"`
}

// ValidRatingValue reports whether v is inside the user rating scale and on a half-star step.
func ValidRatingValue(v float64) bool {
	if math.IsNaN(v) || v < MinUserRating || v > MaxRating {
		return false
	}
	steps := v / RatingStep
	return math.Abs(steps-math.Round(steps)) < 1e-9
}

// Item is a movie in the catalog.
type Item struct {
	// ID is the movie id (movieId in source data).
	ID int `json:"id"`

	// Title is the display title, usually including the year in parentheses.
	Title string `json:"title"`

	// Genres are the trimmed genre labels.
	Genres []string `json:"genres"`

	// GenreText is the comma-joined genre string as found in source data.
	// Genre filtering matches against this field.
	GenreText string `json:"genre_text"`

	// ReleaseYear is zero when unknown.
	ReleaseYear int `json:"release_year,omitempty"`

	// AvgRating is the mean historical rating.
	AvgRating float64 `json:"avg_rating"`

	// RatingCount is the number of historical ratings (popularity).
	RatingCount int `json:"rating_count"`
}

// MatchesGenre reports whether genre occurs, case-insensitively, as a substring
// of the item's comma-joined genre string. "Action" therefore also matches
// "Action-Comedy"; the looser substring semantic is intentional.
func (it *Item) MatchesGenre(genre string) bool {
	if genre == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.GenreText), strings.ToLower(genre))
}

// ScoredItem is a candidate with its predicted rating.
type ScoredItem struct {
	ItemID int     `json:"item_id"`
	Score  float64 `json:"predicted_rating"`
}

// Request is a cold-start recommendation request.
type Request struct {
	// Seeds are the requester's ratings. At least one is required.
	Seeds []SeedRating `json:"seeds"`

	// N is the number of recommendations to return. It must be at least 1
	// and is capped at Limits.MaxN.
	N int `json:"n"`

	// Genre optionally restricts results. Empty or "All" disables filtering.
	Genre string `json:"genre,omitempty"`

	// RequestID is propagated into logs and events. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// Response holds the ranked recommendations.
type Response struct {
	Items           []ScoredItem     `json:"items"`
	SyntheticUserID int              `json:"synthetic_user_id"`
	RequestID       string           `json:"request_id"`
	Metadata        ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	ModelName        string        `json:"model"`
	Seed             int64         `json:"seed"`
	SeedCount        int           `json:"seed_count"`
	CandidatesScored int           `json:"candidates_scored"`
	Filtered         int           `json:"filtered"`
	FitDuration      time.Duration `json:"fit_duration"`
	LatencyMS        int64         `json:"latency_ms"`
	GeneratedAt      time.Time     `json:"generated_at"`
}

// Model is a latent factor predictor. A Model instance belongs to exactly one
// request; it is fitted once and then queried.
type Model interface {
	// Name returns the algorithm identifier.
	Name() string

	// Fit performs a full retrain on the snapshot.
	Fit(ctx context.Context, snap *Snapshot) error

	// Predict returns the estimated rating clamped to [MinRating, MaxRating].
	// It returns ErrModelNotFitted if called before Fit.
	Predict(userID, itemID int) (float64, error)

	// IsFitted reports whether Fit completed successfully.
	IsFitted() bool
}

// ModelFactory builds a fresh, unfitted Model.
type ModelFactory func() Model

// Clamp limits an estimate to the rating scale.
func Clamp(est float64) float64 {
	if math.IsNaN(est) {
		return MinRating
	}
	if est < MinRating {
		return MinRating
	}
	if est > MaxRating {
		return MaxRating
	}
	return est
}
