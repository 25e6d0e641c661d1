// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/streamflix/internal/models"
)

// Health status values.
const (
	healthStatusHealthy  = "healthy"
	healthStatusNotReady = "not_ready"
)

// HealthLive reports that the process is serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data: models.HealthStatus{
			Status:  healthStatusHealthy,
			Version: h.version,
			Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		},
	})
}

// HealthReady reports whether a dataset is loaded. An empty catalog cannot
// produce recommendations and yields 503.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.Stats()

	health := models.HealthStatus{
		Status:      healthStatusHealthy,
		Version:     h.version,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		CatalogSize: stats.CatalogSize,
		Ratings:     stats.Ratings,
		Model:       h.engine.Config().Model,
		MediaLookup: h.mediaEnabled(),
	}

	status := http.StatusOK
	if stats.CatalogSize == 0 {
		health.Status = healthStatusNotReady
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, r, status, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   health,
	})
}
