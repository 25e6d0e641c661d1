// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tomtom215/streamflix/internal/events"
	"github.com/tomtom215/streamflix/internal/logging"
	"github.com/tomtom215/streamflix/internal/metrics"
	"github.com/tomtom215/streamflix/internal/models"
	"github.com/tomtom215/streamflix/internal/recommend"
)

// maxMediaLookups bounds concurrent poster/trailer lookups per request.
const maxMediaLookups = 4

// Recommend fits a model on the stored ratings plus the submitted seed
// ratings and returns the top predictions for the synthetic user.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	w.Header().Set("Cache-Control", "no-store")

	var req models.RecommendationRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		metrics.RecordRecommendation(metrics.ResultInvalid, 0, 0)
		respondError(w, r, http.StatusBadRequest, CodeInvalidJSON, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		metrics.RecordRecommendation(metrics.ResultInvalid, 0, 0)
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	n := req.N
	if n == 0 {
		n = h.defaultN
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		Seeds:     req.Seeds(),
		N:         n,
		Genre:     req.Genre,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		classified := classifyRecommendError(err)
		metrics.RecordRecommendation(classified.result, 0, 0)
		var logErr error
		if !recommend.IsValidationError(err) {
			logErr = err
		}
		respondAPIError(w, r, classified.status, classified.apiErr, logErr)
		return
	}
	metrics.RecordRecommendation(metrics.ResultSuccess, resp.Metadata.FitDuration, resp.Metadata.CandidatesScored)

	h.publishServed(r.Context(), resp, req.Genre)

	out := models.RecommendationResponse{
		RequestID:        resp.RequestID,
		SyntheticUserID:  resp.SyntheticUserID,
		Model:            resp.Metadata.ModelName,
		Genre:            req.Genre,
		SeedCount:        resp.Metadata.SeedCount,
		CandidatesScored: resp.Metadata.CandidatesScored,
		FitDurationMS:    resp.Metadata.FitDuration.Milliseconds(),
		Recommendations:  h.buildRecommendations(r.Context(), resp.Items, req.IncludeMedia),
	}
	respondSuccess(w, r, out, start)
}

// buildRecommendations joins scored items with catalog metadata, in rank order.
func (h *Handler) buildRecommendations(ctx context.Context, items []recommend.ScoredItem, includeMedia bool) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(items))
	for _, si := range items {
		item, err := h.catalog.Lookup(si.ItemID)
		if err != nil {
			logging.Ctx(ctx).Warn().Int("movie_id", si.ItemID).Msg("Scored item missing from catalog")
			continue
		}
		genres := item.Genres
		if genres == nil {
			genres = []string{}
		}
		out = append(out, models.Recommendation{
			Rank:            len(out) + 1,
			MovieID:         item.ID,
			Title:           item.Title,
			Genres:          genres,
			ReleaseYear:     item.ReleaseYear,
			PredictedRating: si.Score,
		})
	}

	if includeMedia && h.media != nil {
		h.attachMedia(ctx, out)
	}
	return out
}

// attachMedia looks up media for every recommendation with bounded concurrency.
func (h *Handler) attachMedia(ctx context.Context, recs []models.Recommendation) {
	sem := make(chan struct{}, maxMediaLookups)
	var wg sync.WaitGroup
	for i := range recs {
		wg.Add(1)
		sem <- struct{}{}
		go func(rec *models.Recommendation) {
			defer wg.Done()
			defer func() { <-sem }()
			m := h.media.Lookup(ctx, rec.Title)
			rec.Media = &m
		}(&recs[i])
	}
	wg.Wait()
}

// publishServed emits a recommendation.served event. Failures are logged and
// never affect the response.
func (h *Handler) publishServed(ctx context.Context, resp *recommend.Response, genre string) {
	if h.events == nil {
		return
	}
	if err := h.events.PublishRecommendationServed(events.NewRecommendationServed(resp, genre)); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to publish recommendation event")
	}
}
