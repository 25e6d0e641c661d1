// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package models

import (
	"github.com/tomtom215/streamflix/internal/media"
	"github.com/tomtom215/streamflix/internal/recommend"
)

// SeedRatingInput is one rating supplied by the requester.
type SeedRatingInput struct {
	MovieID int     `json:"movie_id" validate:"required,gt=0"`
	Rating  float64 `json:"rating"`
}

// RecommendationRequest is the body of POST /api/v1/recommendations.
// Rating values, duplicates and unknown ids are checked by the engine so
// they map to their own error codes.
type RecommendationRequest struct {
	Ratings      []SeedRatingInput `json:"ratings" validate:"dive"`
	N            int               `json:"n" validate:"gte=0"`
	Genre        string            `json:"genre" validate:"max=100,genre"`
	IncludeMedia bool              `json:"include_media"`
}

// Seeds converts the input ratings for the engine.
func (r *RecommendationRequest) Seeds() []recommend.SeedRating {
	seeds := make([]recommend.SeedRating, len(r.Ratings))
	for i, in := range r.Ratings {
		seeds[i] = recommend.SeedRating{ItemID: in.MovieID, Value: in.Rating}
	}
	return seeds
}

// Recommendation is one ranked movie.
type Recommendation struct {
	Rank            int          `json:"rank"`
	MovieID         int          `json:"movie_id"`
	Title           string       `json:"title"`
	Genres          []string     `json:"genres"`
	ReleaseYear     int          `json:"release_year,omitempty"`
	PredictedRating float64      `json:"predicted_rating"`
	Media           *media.Media `json:"media,omitempty"`
}

// RecommendationResponse is the data of a successful recommendation.
type RecommendationResponse struct {
	RequestID        string           `json:"request_id"`
	SyntheticUserID  int              `json:"synthetic_user_id"`
	Model            string           `json:"model"`
	Genre            string           `json:"genre,omitempty"`
	SeedCount        int              `json:"seed_count"`
	CandidatesScored int              `json:"candidates_scored"`
	FitDurationMS    int64            `json:"fit_duration_ms"`
	Recommendations  []Recommendation `json:"recommendations"`
}
