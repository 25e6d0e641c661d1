// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/streamflix/internal/models"
	"github.com/tomtom215/streamflix/internal/recommend"
)

// Default list sizes.
const (
	defaultTrendingLimit = 20
	defaultGenreLimit    = 10
	defaultSearchLimit   = 50
)

// parseListQuery reads q and the named limit parameter and validates them.
func parseListQuery(r *http.Request, limitKey string, defaultLimit int) (models.MovieListQuery, *models.APIError) {
	limit, err := getIntParam(r, limitKey, defaultLimit)
	if err != nil {
		return models.MovieListQuery{}, &models.APIError{Code: CodeValidation, Message: err.Error()}
	}
	q := models.MovieListQuery{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Limit: limit,
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		return q, apiErr
	}
	return q, nil
}

// Trending returns the most rated movies.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, apiErr := parseListQuery(r, "limit", defaultTrendingLimit)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	movies := models.NewMovies(h.catalog.TopByPopularity(q.Limit))
	respondSuccess(w, r, models.NewMovieList("Top Trending Movies", movies), start)
}

// Search finds movies whose title contains q.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, apiErr := parseListQuery(r, "limit", defaultSearchLimit)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	if q.Query == "" {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "q is required", nil)
		return
	}

	items := h.catalog.Search(q.Query)
	if len(items) > q.Limit {
		items = items[:q.Limit]
	}
	respondSuccess(w, r, models.NewMovieList("", models.NewMovies(items)), start)
}

// Genres lists the browse options, starting with "All".
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	genres := append([]string{recommend.AllGenres}, h.catalog.Genres()...)
	respondSuccess(w, r, genres, start)
}

// ByGenre returns the best rated movies of a genre.
func (h *Handler) ByGenre(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	genre, err := url.PathUnescape(chi.URLParam(r, "genre"))
	if err != nil || genre == "" {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Invalid genre", err)
		return
	}
	q, apiErr := parseListQuery(r, "limit", defaultGenreLimit)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	movies := models.NewMovies(h.catalog.ByGenre(genre, q.Limit))
	respondSuccess(w, r, models.NewMovieList(genre, movies), start)
}

// Sample returns random movies for the user to rate.
func (h *Handler) Sample(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, apiErr := parseListQuery(r, "n", h.config.Recommend.SampleSize)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	respondSuccess(w, r, models.NewMovieList("", models.NewMovies(h.sample(q.Limit))), start)
}

// Movie returns one movie with its poster and trailer.
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "movie id must be a positive integer", nil)
		return
	}

	item, err := h.catalog.Lookup(id)
	if err != nil {
		if errors.Is(err, recommend.ErrUnknownItem) {
			respondAPIError(w, r, http.StatusNotFound, &models.APIError{
				Code:    CodeUnknownItem,
				Message: err.Error(),
				Details: map[string]interface{}{"movie_id": id},
			}, nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, CodeRecommendation, "Failed to load movie", err)
		return
	}

	movie := models.NewMovie(&item)
	if h.media != nil {
		m := h.media.Lookup(r.Context(), item.Title)
		movie.Media = &m
	}
	respondSuccess(w, r, movie, start)
}
