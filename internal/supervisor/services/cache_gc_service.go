// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GarbageCollector matches *cache.BadgerStore.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// CacheGCConfig configures periodic value log garbage collection.
type CacheGCConfig struct {
	// Interval between GC runs. Default: 10m
	Interval time.Duration

	// DiscardRatio is the minimum reclaimable fraction of a value log file.
	// Default: 0.5
	DiscardRatio float64
}

// CacheGCService periodically reclaims space in the persistent media cache.
type CacheGCService struct {
	gc     GarbageCollector
	config CacheGCConfig
	logger zerolog.Logger
	name   string
}

// NewCacheGCService creates a cache GC service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheGCService(gc GarbageCollector, cfg CacheGCConfig, logger zerolog.Logger) *CacheGCService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.DiscardRatio <= 0 || cfg.DiscardRatio >= 1 {
		cfg.DiscardRatio = 0.5
	}
	return &CacheGCService{
		gc:     gc,
		config: cfg,
		logger: logger.With().Str("service", "cache-gc").Logger(),
		name:   "cache-gc",
	}
}

// Serve implements suture.Service. GC errors are logged and retried on the
// next tick.
func (s *CacheGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Debug().Dur("interval", s.config.Interval).Msg("Cache GC service running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			start := time.Now()
			if err := s.gc.RunGC(s.config.DiscardRatio); err != nil {
				s.logger.Warn().Err(err).Msg("Cache GC failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("Cache GC complete")
		}
	}
}

// String implements fmt.Stringer.
func (s *CacheGCService) String() string {
	return s.name
}
