// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package media

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/tomtom215/streamflix/internal/config"
)

// posterBaseURL is the TMDB image CDN prefix for w500 posters.
const posterBaseURL = "https://image.tmdb.org/t/p/w500/"

// TMDBClient resolves poster URLs through the TMDB movie search.
type TMDBClient struct {
	api    *apiClient
	apiKey string
}

type tmdbSearchResponse struct {
	Results []struct {
		ID         int    `json:"id"`
		Title      string `json:"title"`
		PosterPath string `json:"poster_path"`
	} `json:"results"`
}

// NewTMDBClient creates a TMDB client with its own limiter and breaker.
func NewTMDBClient(cfg config.MediaConfig, httpClient *http.Client) *TMDBClient {
	return &TMDBClient{
		api: newAPIClient(cfg.TMDBBaseURL, httpClient, cfg.RequestsPerSecond, cfg.Burst,
			newBreaker("tmdb-api", cfg.BreakerFailureRatio)),
		apiKey: cfg.TMDBAPIKey,
	}
}

// PosterURL returns the poster of the best search match for title.
// ErrNoMatch is returned when the search is empty or the match has no poster.
func (c *TMDBClient) PosterURL(ctx context.Context, title string) (string, error) {
	return c.api.breaker.execute(func() (string, error) {
		var resp tmdbSearchResponse
		query := url.Values{
			"api_key": {c.apiKey},
			"query":   {title},
		}
		if err := c.api.getJSON(ctx, "/search/movie", query, &resp); err != nil {
			return "", err
		}
		if len(resp.Results) == 0 || resp.Results[0].PosterPath == "" {
			return "", ErrNoMatch
		}
		return posterBaseURL + strings.TrimPrefix(resp.Results[0].PosterPath, "/"), nil
	})
}
