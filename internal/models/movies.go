// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package models

import (
	"github.com/tomtom215/streamflix/internal/media"
	"github.com/tomtom215/streamflix/internal/recommend"
)

// Movie is a catalog entry as exposed by the API.
type Movie struct {
	ID          int          `json:"movie_id"`
	Title       string       `json:"title"`
	Genres      []string     `json:"genres"`
	ReleaseYear int          `json:"release_year,omitempty"`
	AvgRating   float64      `json:"avg_rating"`
	RatingCount int          `json:"rating_count"`
	Media       *media.Media `json:"media,omitempty"`
}

// NewMovie converts a catalog item.
func NewMovie(it *recommend.Item) Movie {
	genres := it.Genres
	if genres == nil {
		genres = []string{}
	}
	return Movie{
		ID:          it.ID,
		Title:       it.Title,
		Genres:      genres,
		ReleaseYear: it.ReleaseYear,
		AvgRating:   it.AvgRating,
		RatingCount: it.RatingCount,
	}
}

// NewMovies converts a slice of catalog items, never returning nil.
func NewMovies(items []recommend.Item) []Movie {
	out := make([]Movie, len(items))
	for i := range items {
		out[i] = NewMovie(&items[i])
	}
	return out
}

// MovieList is a titled list of movies.
type MovieList struct {
	Title  string  `json:"title,omitempty"`
	Count  int     `json:"count"`
	Movies []Movie `json:"movies"`
}

// NewMovieList wraps movies with their count.
func NewMovieList(title string, movies []Movie) MovieList {
	return MovieList{Title: title, Count: len(movies), Movies: movies}
}

// MovieListQuery holds the query parameters of the list endpoints.
type MovieListQuery struct {
	Query string `json:"q" validate:"max=200"`
	Limit int    `json:"limit" validate:"gte=1,lte=1000"`
}
