// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamflix/internal/cache"
	"github.com/tomtom215/streamflix/internal/config"
	"github.com/tomtom215/streamflix/internal/logging"
	"github.com/tomtom215/streamflix/internal/metrics"
)

// memoryCacheEntries bounds the in-process media cache tier.
const memoryCacheEntries = 2048

// Media is the presentation data attached to a movie.
type Media struct {
	PosterURL        string `json:"poster_url"`
	TrailerURL       string `json:"trailer_url,omitempty"`
	TrailerAvailable bool   `json:"trailer_available"`
}

// PosterSource resolves a poster URL for a title.
type PosterSource interface {
	PosterURL(ctx context.Context, title string) (string, error)
}

// TrailerSource resolves a trailer URL for a title.
type TrailerSource interface {
	TrailerURL(ctx context.Context, title string) (string, error)
}

// Service looks up posters and trailers. Upstream failures are logged and
// replaced by the placeholder poster and an unavailable trailer; Lookup never
// fails.
type Service struct {
	posters  PosterSource
	trailers TrailerSource
	cache    cache.Store
	ttl      time.Duration
}

// NewService builds the upstream clients for every configured API key.
// store may be nil to disable caching.
func NewService(cfg config.MediaConfig, store cache.Store) *Service {
	s := &Service{cache: store, ttl: cfg.CacheTTL}
	if !cfg.Enabled {
		logging.Info().Msg("Media lookups disabled")
		return s
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.TMDBAPIKey != "" {
		s.posters = NewTMDBClient(cfg, httpClient)
	} else {
		logging.Warn().Msg("TMDB_API_KEY not set, posters will use the placeholder")
	}
	if cfg.YouTubeAPIKey != "" {
		s.trailers = NewYouTubeClient(cfg, httpClient)
	} else {
		logging.Warn().Msg("YOUTUBE_API_KEY not set, trailers will be unavailable")
	}
	return s
}

// NewServiceWithSources wires explicit sources. Either may be nil.
func NewServiceWithSources(posters PosterSource, trailers TrailerSource, store cache.Store, ttl time.Duration) *Service {
	return &Service{posters: posters, trailers: trailers, cache: store, ttl: ttl}
}

// Enabled reports whether any upstream is configured.
func (s *Service) Enabled() bool {
	return s.posters != nil || s.trailers != nil
}

// Lookup returns the poster and trailer for title. Results are cached only
// when every configured upstream gave a definite answer.
func (s *Service) Lookup(ctx context.Context, title string) Media {
	result := Media{PosterURL: PlaceholderPoster}
	if !s.Enabled() || title == "" {
		return result
	}

	key := cache.GenerateKey("media", title)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached
	}

	complete := true
	if s.posters != nil {
		poster, err := s.posters.PosterURL(ctx, title)
		if s.observe(ctx, ServiceTMDB, title, err) {
			result.PosterURL = poster
		} else if !errors.Is(err, ErrNoMatch) {
			complete = false
		}
	}
	if s.trailers != nil {
		trailer, err := s.trailers.TrailerURL(ctx, title)
		if s.observe(ctx, ServiceYouTube, title, err) {
			result.TrailerURL = trailer
			result.TrailerAvailable = true
		} else if !errors.Is(err, ErrNoMatch) {
			complete = false
		}
	}

	if complete {
		s.toCache(ctx, key, result)
	}
	return result
}

// observe records the lookup outcome and reports whether a URL was found.
func (s *Service) observe(ctx context.Context, service, title string, err error) bool {
	switch {
	case err == nil:
		metrics.RecordMediaLookup(service, metrics.ResultFound)
		return true
	case errors.Is(err, ErrNoMatch):
		metrics.RecordMediaLookup(service, metrics.ResultNotFound)
	default:
		metrics.RecordMediaLookup(service, metrics.ResultFailed)
		lookupErr := &ExternalLookupError{Service: service, Title: title, Err: err}
		logging.Ctx(ctx).Warn().
			Err(lookupErr).
			Str("service", service).
			Str("title", logging.SanitizeValue(title)).
			Msg("Media lookup failed, using fallback")
	}
	return false
}

func (s *Service) fromCache(ctx context.Context, key string) (Media, bool) {
	if s.cache == nil {
		return Media{}, false
	}
	data, ok, err := s.cache.Get(key)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Media cache read failed")
	}
	if !ok {
		return Media{}, false
	}
	var m Media
	if err := json.Unmarshal(data, &m); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Discarding undecodable media cache entry")
		return Media{}, false
	}
	return m, true
}

func (s *Service) toCache(ctx context.Context, key string, m Media) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, data, s.ttl); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Media cache write failed")
	}
}

// NewCache builds the media cache: a memory tier, backed by BadgerDB when
// cfg.CachePath is set. The returned BadgerStore is nil without a path and
// is closed by closing the Tiered cache.
func NewCache(cfg config.MediaConfig) (*cache.Tiered, *cache.BadgerStore, error) {
	memory := cache.NewMemory(memoryCacheEntries, time.Minute)
	tiers := []cache.Tier{{Name: "memory", Store: memory}}

	var disk *cache.BadgerStore
	if cfg.CachePath != "" {
		var err error
		disk, err = cache.OpenBadger(cfg.CachePath)
		if err != nil {
			_ = memory.Close()
			return nil, nil, fmt.Errorf("open media cache: %w", err)
		}
		tiers = append(tiers, cache.Tier{Name: "badger", Store: disk})
	}

	return cache.NewTiered(cfg.CacheTTL, metrics.RecordMediaCache, tiers...), disk, nil
}
