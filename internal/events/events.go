// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package events

import (
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/streamflix/internal/recommend"
)

// SchemaVersion is the current event schema version.
// Increment it on breaking changes to RecommendationServed.
const SchemaVersion = 1

// TopicRecommendationServed carries one event per successful recommendation.
const TopicRecommendationServed = "recommendation.served"

// RecommendationServed records a served recommendation list.
type RecommendationServed struct {
	SchemaVersion   int       `json:"schema_version"`
	EventID         string    `json:"event_id"`
	RequestID       string    `json:"request_id,omitempty"`
	SyntheticUserID int       `json:"synthetic_user_id"`
	Model           string    `json:"model"`
	SeedCount       int       `json:"seed_count"`
	Genre           string    `json:"genre,omitempty"`
	ItemIDs         []int     `json:"item_ids"`
	Candidates      int       `json:"candidates_scored"`
	LatencyMS       int64     `json:"latency_ms"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewRecommendationServed builds the event for resp.
func NewRecommendationServed(resp *recommend.Response, genre string) *RecommendationServed {
	ids := make([]int, len(resp.Items))
	for i := range resp.Items {
		ids[i] = resp.Items[i].ItemID
	}
	ts := resp.Metadata.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return &RecommendationServed{
		SchemaVersion:   SchemaVersion,
		EventID:         uuid.New().String(),
		RequestID:       resp.RequestID,
		SyntheticUserID: resp.SyntheticUserID,
		Model:           resp.Metadata.ModelName,
		SeedCount:       resp.Metadata.SeedCount,
		Genre:           genre,
		ItemIDs:         ids,
		Candidates:      resp.Metadata.CandidatesScored,
		LatencyMS:       resp.Metadata.LatencyMS,
		Timestamp:       ts.UTC(),
	}
}

// Validate checks the fields consumers rely on.
func (e *RecommendationServed) Validate() error {
	if e.EventID == "" {
		return errors.New("event_id is required")
	}
	if e.SyntheticUserID < 1 {
		return errors.New("synthetic_user_id must be positive")
	}
	if e.Timestamp.IsZero() {
		return errors.New("timestamp is required")
	}
	return nil
}

// decodeRecommendationServed unmarshals and validates a message payload.
func decodeRecommendationServed(payload []byte) (*RecommendationServed, error) {
	var ev RecommendationServed
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}
