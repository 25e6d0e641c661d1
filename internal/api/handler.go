// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package api

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/tomtom215/streamflix/internal/config"
	"github.com/tomtom215/streamflix/internal/events"
	"github.com/tomtom215/streamflix/internal/media"
	"github.com/tomtom215/streamflix/internal/recommend"
)

// Dependencies are the collaborators of a Handler.
type Dependencies struct {
	Engine *recommend.Engine
	Config *config.Config

	// Media enriches movies with posters and trailers. Nil disables enrichment.
	Media *media.Service

	// Events receives recommendation.served events. Nil disables publishing.
	Events events.Publisher

	Version string
}

// Handler serves the HTTP API.
type Handler struct {
	engine  *recommend.Engine
	catalog *recommend.Catalog
	config  *config.Config
	media   *media.Service
	events  events.Publisher
	version string

	// defaultN applies when a recommendation request omits n.
	defaultN int

	startTime time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewHandler creates a Handler.
func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Engine == nil {
		return nil, errors.New("api: engine is required")
	}
	if deps.Config == nil {
		return nil, errors.New("api: config is required")
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	return &Handler{
		engine:    deps.Engine,
		catalog:   deps.Engine.Catalog(),
		config:    deps.Config,
		media:     deps.Media,
		events:    deps.Events,
		version:   version,
		defaultN:  deps.Engine.Config().Limits.DefaultN,
		startTime: time.Now(),
		//nolint:gosec // G404: sampling movies to rate is not security sensitive
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// sample draws n random catalog items.
func (h *Handler) sample(n int) []recommend.Item {
	h.rngMu.Lock()
	defer h.rngMu.Unlock()
	return h.catalog.Sample(n, h.rng)
}

func (h *Handler) mediaEnabled() bool {
	return h.media != nil && h.media.Enabled()
}
