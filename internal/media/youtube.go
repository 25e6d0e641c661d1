// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package media

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tomtom215/streamflix/internal/config"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// YouTubeClient finds official trailers through the YouTube Data API search.
type YouTubeClient struct {
	api    *apiClient
	apiKey string
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// NewYouTubeClient creates a YouTube client with its own limiter and breaker.
func NewYouTubeClient(cfg config.MediaConfig, httpClient *http.Client) *YouTubeClient {
	return &YouTubeClient{
		api: newAPIClient(cfg.YouTubeBaseURL, httpClient, cfg.RequestsPerSecond, cfg.Burst,
			newBreaker("youtube-api", cfg.BreakerFailureRatio)),
		apiKey: cfg.YouTubeAPIKey,
	}
}

// TrailerURL returns the watch URL of the top "<title> official trailer" video.
func (c *YouTubeClient) TrailerURL(ctx context.Context, title string) (string, error) {
	return c.api.breaker.execute(func() (string, error) {
		var resp youtubeSearchResponse
		query := url.Values{
			"part":       {"id,snippet"},
			"q":          {title + " official trailer"},
			"type":       {"video"},
			"maxResults": {"1"},
			"key":        {c.apiKey},
		}
		if err := c.api.getJSON(ctx, "/search", query, &resp); err != nil {
			return "", err
		}
		if len(resp.Items) == 0 || resp.Items[0].ID.VideoID == "" {
			return "", ErrNoMatch
		}
		return watchURLPrefix + url.QueryEscape(resp.Items[0].ID.VideoID), nil
	})
}
